package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create an account with an existing email
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// ErrDuplicateToken is returned when trying to create a token with an existing hash
	ErrDuplicateToken = errors.New("token with this hash already exists")

	// ErrTokenConsumed is returned when a verification token is already used or expired
	ErrTokenConsumed = errors.New("verification token already used or expired")
)
