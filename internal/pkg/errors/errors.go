package errors

import "errors"

// Custom application errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidStatus     = errors.New("operation not allowed in the current state")
	ErrMemoryNotFound    = errors.New("memory not found")
	ErrNotOwner          = errors.New("memory belongs to another user")
	ErrInvalidTitle      = errors.New("title must be 1 to 255 characters")
	ErrInvalidContent    = errors.New("content must be 1 to 2048 characters")
	ErrInvalidMedia      = errors.New("media file is missing or has an unsupported format")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrLineAPI           = errors.New("LINE API request failed")
	ErrInternalServer    = errors.New("internal server error")
)
