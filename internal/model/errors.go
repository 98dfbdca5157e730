package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrPrincipalNotFound = errors.New("token subject no longer exists")

	// Joke related errors
	ErrJokeNotFound = errors.New("joke not found")
	ErrJokeIDSpace  = errors.New("could not allocate a unique joke id")

	// Store errors. ErrDuplicateKey is returned by every repository when a
	// unique key (user email, joke id) is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	ErrStore        = errors.New("store failure")

	// Permission/Access related errors
	ErrForbidden = errors.New("forbidden")

	// Upstream joke API errors
	ErrUpstreamUnavailable = errors.New("joke api unavailable")
	ErrUpstreamFailure     = errors.New("joke api request failed")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
