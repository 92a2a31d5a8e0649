package report

import "fmt"

// WriteError is returned when one output artifact could not be persisted.
// Artifacts are independent: a failed one never corrupts those already
// written.
type WriteError struct {
	Artifact string
	Cause    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("report: WriteError: %s: %v", e.Artifact, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }
