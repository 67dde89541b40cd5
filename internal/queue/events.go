package queue

import "time"

// Routing keys for published events
const (
	KeyVerificationRequested = "auth.verification.requested"
	KeyAccountVerified       = "auth.account.verified"
)

// VerificationRequested is consumed by the mailer to deliver a verification
// email. Token is the raw single-use token embedded in the verification link.
type VerificationRequested struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	RequestedAt time.Time `json:"requested_at"`
}

// AccountVerified announces a successfully verified account
type AccountVerified struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}
