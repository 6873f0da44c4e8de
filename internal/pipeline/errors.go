package pipeline

import "fmt"

// MessageServiceUnreachable is the user-facing message for transport failures
const MessageServiceUnreachable = "could not reach analysis service"

// messageServiceFailed is used when the service signals failure without a message
const messageServiceFailed = "analysis failed"

// TransportError represents a failure to reach the analysis service or an
// unsuccessful HTTP-class outcome. Error() returns the generic user-facing message;
// the underlying cause is kept for logs.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Detail returns the message together with its cause, for logging
func (e *TransportError) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// ServiceError represents an explicit failure reported by a reachable analysis service.
// Message is the service-provided text, verbatim.
type ServiceError struct {
	Message    string
	StatusCode int
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidBodyError is the cause of a TransportError when a successful answer is not JSON,
// e.g. an HTML page from a proxy
type InvalidBodyError struct {
	Body []byte
}

func (e *InvalidBodyError) Error() string {
	const maxPreview = 64
	preview := string(e.Body)
	if len(preview) > maxPreview {
		preview = preview[:maxPreview] + "..."
	}
	return fmt.Sprintf("response body is not JSON (%d bytes): %q", len(e.Body), preview)
}
