package client

import (
	"errors"
	"regexp"
	"strings"
)

// ErrConfirmationMismatch is a local validation result, like the onboarding
// wizard's sentinel errors. It never goes through the provider error taxonomy
// because the UI renders it against the confirm field, not as an auth failure.
var ErrConfirmationMismatch = errors.New("password confirmation does not match")

// Deliberately permissive: one @ with something before it, and a dot in the
// domain part. Full RFC 5322 matching rejects addresses real users have.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultPasswordMinLength matches the provider's default policy
const DefaultPasswordMinLength = 6

// ValidateEmail reports whether the address has a local@domain.tld shape
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidatePassword is a length-only check. Anything stronger is the
// provider's policy to enforce, not the client's.
func ValidatePassword(password string, minLength int) bool {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	return len(password) >= minLength
}

// ValidateConfirmation reports whether both passwords are non-empty and equal
func ValidateConfirmation(password, confirm string) bool {
	return password != "" && password == confirm
}
