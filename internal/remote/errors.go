package remote

import "fmt"

// TransportError represents a failure to exchange a request with the analysis service
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis service request to %s failed: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StatusError represents a non-2xx answer from the analysis service.
// The body is kept because the service explains failures in it.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service returned HTTP status %d for %s", e.StatusCode, e.URL)
}

// ResponseBody returns the body of the failed response
func (e *StatusError) ResponseBody() []byte {
	return e.Body
}

// HTTPStatus returns the status code of the failed response
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}
