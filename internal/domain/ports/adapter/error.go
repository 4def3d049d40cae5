package adapter

import "fmt"

// UpstreamError is a non-success response from a webhook call. The body is
// surfaced to the caller; it is not fatal to the session.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}
