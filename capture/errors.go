package capture

import "fmt"

// CaptureError is returned when the screenshot subsystem fails in a way
// that cannot be absorbed: no initial frame, or no full-page frame.
type CaptureError struct {
	Op    string
	Cause error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture: CaptureError: %s: %v", e.Op, e.Cause)
}

func (e *CaptureError) Unwrap() error { return e.Cause }
