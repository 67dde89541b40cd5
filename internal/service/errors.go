package service

// Provider error codes. These are part of the wire contract: clients map each
// code into their own user-facing error taxonomy, so codes must stay stable.
const (
	CodeInvalidEmail       = "invalid-email"
	CodeWeakPassword       = "weak-password"
	CodeEmailAlreadyInUse  = "email-already-in-use"
	CodeUserNotFound       = "user-not-found"
	CodeWrongPassword      = "wrong-password"
	CodeUserDisabled       = "user-disabled"
	CodeEmailNotVerified   = "email-not-verified"
	CodeInvalidToken       = "invalid-token"
	CodeProfileNotFound    = "profile-not-found"
	CodeInvalidDisplayName = "invalid-display-name"
	CodeInvalidUsername    = "invalid-username"
	CodeInvalidFrequency   = "invalid-frequency"
)

// AuthError is a provider error with a stable code. Handlers translate the
// code into an HTTP status; anything that is not an AuthError is an internal
// failure.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates a coded provider error
func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}
