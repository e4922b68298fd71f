package api

import "fmt"

// TransportError reports that an endpoint could not be reached, answered with
// a non-2xx status, or sent a body that could not be decoded. Callers never
// see the upstream error body; only the status code is kept.
type TransportError struct {
	Op         string // "countries", "cities", "districts", "times", or "raw"
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s: %s returned status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
