package task

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidColumn = errors.New("invalid board column")
)
