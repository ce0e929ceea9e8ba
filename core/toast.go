package core

import (
	v1 "fieldwork.com/console/api/v1"
	"github.com/google/uuid"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is a transient notification shown to the operator.
type Toast struct {
	ID      string    `json:"id"`
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

func newToast(kind ToastKind, message string) Toast {
	return Toast{ID: uuid.NewString(), Kind: kind, Message: message}
}

func Success(message string) Toast {
	return newToast(ToastSuccess, message)
}

func Failure(message string) Toast {
	return newToast(ToastError, message)
}

func Info(message string) Toast {
	return newToast(ToastInfo, message)
}

// FromError builds an error toast from a client or validation error.
func FromError(err error) Toast {
	if ve, ok := AsValidationError(err); ok {
		return Failure(ve.Message)
	}
	return Failure(v1.ErrorMessage(err))
}
