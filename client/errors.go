// Package client is the app-side SDK for the heapsauth service. It wraps the
// identity provider and profile store behind small interfaces, tracks the
// current session, and drives the verification/onboarding flow that gates
// navigation in the mobile app.
package client

import (
	"errors"
	"fmt"
)

// ErrorCategory is the closed set of error kinds surfaced to the UI. Every
// provider error code maps into exactly one category; unknown codes fall
// through to CategoryUnknown.
type ErrorCategory int

const (
	CategoryInvalidEmail ErrorCategory = iota
	// CategoryInvalidCredentials covers both unknown-email and wrong-password
	// so the UI never leaks which of the two it was
	CategoryInvalidCredentials
	CategoryAccountDisabled
	CategoryAccountAlreadyExists
	CategoryWeakPassword
	CategoryEmailNotVerified
	CategoryUnknown
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryInvalidEmail:
		return "invalid email address"
	case CategoryInvalidCredentials:
		return "incorrect email or password"
	case CategoryAccountDisabled:
		return "this account has been disabled"
	case CategoryAccountAlreadyExists:
		return "an account with this email already exists"
	case CategoryWeakPassword:
		return "password is too weak"
	case CategoryEmailNotVerified:
		return "please verify your email address"
	default:
		return "something went wrong, please try again"
	}
}

// Error is a categorized failure returned by the gateway. The category drives
// which inline message the UI renders.
type Error struct {
	Category ErrorCategory
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Category, e.cause)
	}
	return e.Category.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(category ErrorCategory, cause error) *Error {
	return &Error{Category: category, cause: cause}
}

// CategoryOf extracts the category from a gateway error. Anything that is not
// a categorized error reads as CategoryUnknown.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryUnknown
}

var codeCategories = map[string]ErrorCategory{
	"invalid-email":        CategoryInvalidEmail,
	"user-not-found":       CategoryInvalidCredentials,
	"wrong-password":       CategoryInvalidCredentials,
	"user-disabled":        CategoryAccountDisabled,
	"email-already-in-use": CategoryAccountAlreadyExists,
	"weak-password":        CategoryWeakPassword,
	"email-not-verified":   CategoryEmailNotVerified,
}

// categorize maps any provider failure into the closed category set
func categorize(err error) *Error {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		if category, ok := codeCategories[pErr.Code]; ok {
			return newError(category, err)
		}
	}
	return newError(CategoryUnknown, err)
}
