package browser

import "fmt"

// NavigationError is returned when a page cannot be brought to a loaded
// state: DNS failure, TLS error, navigation timeout, or a non-2xx final
// response for the document itself.
type NavigationError struct {
	URL    string
	Status int // HTTP status of the document response, 0 if none was received
	Cause  error
}

func (e *NavigationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("browser: NavigationError: %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("browser: NavigationError: %s: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error { return e.Cause }
