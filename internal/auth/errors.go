package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when no (email, password) pair matches.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrUnknownEmail is returned by ForgotPassword when no account matches.
	ErrUnknownEmail = errors.New("no account found with this email address")

	// ErrUserNotFound is returned when a repository lookup finds no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a session id has no stored profile.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMissingFields is returned when a register request lacks required fields.
	ErrMissingFields = errors.New("first name, last name, email and password are required")
)
