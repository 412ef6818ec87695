package fetch

import "fmt"

// FetchError is the terminal failure after the retry budget is exhausted.
// It carries the last underlying cause so callers can still see why the
// target never answered.
type FetchError struct {
	// URL is the target that never answered.
	URL string

	// Attempts is how many times the GET was tried.
	Attempts int

	// Err is the last transport-level cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

// Unwrap returns the last underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
