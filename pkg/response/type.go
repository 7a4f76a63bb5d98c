package response

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// HTTPError is an error with the status and code it should be answered with.
type HTTPError struct {
	Status  int
	Code    int
	Message string
}

// NewHTTPError returns an HTTPError whose code equals its status.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Code: status, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message
}
