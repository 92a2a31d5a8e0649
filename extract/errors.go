package extract

import "fmt"

// ExtractionError is returned when the DOM cannot be queried at all on an
// otherwise-loaded page. Failures on individual elements are absorbed and
// logged instead.
type ExtractionError struct {
	Op    string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: ExtractionError: %s: %v", e.Op, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }
