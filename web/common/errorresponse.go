package common

import "fieldwork.com/console/core"

type ErrorResponse struct {
	Message  string      `json:"message"`
	Toast    *core.Toast `json:"toast,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// NewToastResponse reports a failure the console shows as a toast.
func NewToastResponse(toast core.Toast) *ErrorResponse {
	return &ErrorResponse{
		Message: toast.Message,
		Toast:   &toast,
	}
}
