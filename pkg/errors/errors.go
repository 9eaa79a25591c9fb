package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrLoginRequired      = errors.New("please log in")

	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")

	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidColumn = errors.New("invalid board column")

	ErrInvalidInput            = errors.New("invalid input data")
	ErrInvalidResetToken       = errors.New("invalid or expired reset token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
