package application

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers bad signature, expiry, and tokens whose
	// user no longer exists.
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskDeleted marks mutations against a tombstoned task.
	ErrTaskDeleted = errors.New("task is deleted")
)
