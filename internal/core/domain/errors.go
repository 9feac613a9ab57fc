package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrSessionNotFound = errors.New("session not found")

	ErrDuplicateEmail = errors.New("email already registered")

	// ErrBookUnavailable is returned when a loan is requested for a book
	// that is missing or has no available copies.
	ErrBookUnavailable = errors.New("book unavailable")

	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAlreadyReturned = errors.New("loan already returned")

	ErrUserNotFound = errors.New("user not found")
)
