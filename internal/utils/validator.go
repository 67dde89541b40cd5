package utils

import (
	"regexp"
	"strings"
)

// Deliberately permissive: local@domain.tld with a single @ and at least one
// dot after it. Full RFC 5322 is not the goal.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword validates a password against a minimum-length policy.
// Length is the only criterion; strength rules are the provider's business.
func ValidatePassword(password string, minLength int) bool {
	return len(password) >= minLength
}

// ValidateDisplayName requires a trimmed display name of at least 2 characters
func ValidateDisplayName(name string) bool {
	return len(strings.TrimSpace(name)) >= 2
}

// ValidateUsername requires at least 3 characters, letters/digits/underscores only
func ValidateUsername(username string) bool {
	username = strings.TrimSpace(username)
	return len(username) >= 3 && usernameRegex.MatchString(username)
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
