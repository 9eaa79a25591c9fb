package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")

	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)
