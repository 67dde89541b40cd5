package domain

import "time"

// Account represents an identity-provider account. It is the provider-side half
// of a user: credentials and verification status live here, while gameplay
// profile fields live in the profile document store.
type Account struct {
	UID             string     `json:"uid" db:"uid"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at" db:"last_login_at"`
	IsDisabled      bool       `json:"is_disabled" db:"is_disabled"`
	IsEmailVerified bool       `json:"is_email_verified" db:"is_email_verified"`
}

// RefreshToken represents a persisted session refresh token for an account
type RefreshToken struct {
	ID        string    `json:"id" db:"id"`
	UID       string    `json:"uid" db:"uid"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// VerificationToken is a single-use email-verification token. The raw token is
// sent in the verification mail; only its hash is stored. Consuming marks
// UsedAt, so a token can verify an account at most once.
type VerificationToken struct {
	ID        string     `json:"id" db:"id"`
	UID       string     `json:"uid" db:"uid"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
