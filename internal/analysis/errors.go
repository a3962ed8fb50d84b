package analysis

import "fmt"

// Category classifies a failure for the user.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryValidation
	CategoryNetwork
	CategoryServerRejected
	CategoryServerError
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryNetwork:
		return "network"
	case CategoryServerRejected:
		return "server_rejected"
	case CategoryServerError:
		return "server_error"
	case CategoryUnknown:
		return "unknown"
	}
	return "unknown"
}

// Messages fixed by the remote contract.
const (
	MsgServerError       = "Server error occurred"
	MsgNoResponse        = "No response received from server"
	MsgMalformedResponse = "malformed response"
	MsgMissingFile       = "missing required file"
	MsgCancelled         = "request cancelled"
)

// ErrorInfo is the single error the user sees.
type ErrorInfo struct {
	Category Category
	Message  string
	// Cause is kept for logs; it is never shown.
	Cause error
}

func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *ErrorInfo) Unwrap() error { return e.Cause }

// NewError is shorthand for &ErrorInfo{...}.
func NewError(c Category, msg string) *ErrorInfo {
	return &ErrorInfo{Category: c, Message: msg}
}

// BuildError is returned when a request cannot be packaged.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return "build request: " + e.Reason }
