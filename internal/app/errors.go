package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")

	// ErrNotFound covers missing materials, fragments, and issues.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the actor is not authorized for the requested
	// mutation, e.g. editing someone else's submission.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means an illegal lifecycle action, e.g. reviewing
	// an already reviewed material. State is left unchanged.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	ErrSessionNotFound = errors.New("chat session not found")
	ErrMessageEmpty    = errors.New("message content is empty")
)
