package client

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Identity is the provider-issued view of the signed-in account
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// ProviderError carries the provider's stable error code
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// ErrNoProfile is returned by ProfileStore.Get when the identity has no
// profile document yet.
var ErrNoProfile = errors.New("profile does not exist")

// Provider is the narrow identity-provider contract the SDK consumes. The
// HTTP client implements it against the heapsauth service; tests substitute a
// fake.
type Provider interface {
	// SignUp creates the account and triggers a verification mail. The
	// returned identity is always unverified.
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	// ResendVerification asks the provider to send a fresh verification mail
	// for the current identity. A no-op if already verified.
	ResendVerification(ctx context.Context) error
	// Reload re-fetches the current identity from the provider, picking up
	// server-side changes such as the verified flag flipping.
	Reload(ctx context.Context) (*Identity, error)
}

// ProfileSettings holds per-user app settings
type ProfileSettings struct {
	DarkMode      bool `json:"dark_mode"`
	Notifications bool `json:"notifications"`
}

// Profile is the per-user gameplay/profile document
type Profile struct {
	UID                    string          `json:"uid"`
	Email                  string          `json:"email"`
	DisplayName            string          `json:"display_name"`
	Username               string          `json:"username"`
	CurrentGoal            string          `json:"current_goal"`
	Level                  int             `json:"level"`
	XP                     int             `json:"xp"`
	CurrentStreak          int             `json:"current_streak"`
	LongestStreak          int             `json:"longest_streak"`
	IsOnboardingCompleted  bool            `json:"is_onboarding_completed"`
	Settings               ProfileSettings `json:"settings"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	TotalQuestionsAnswered int             `json:"total_questions_answered"`
}

// ProfileStore is the profile-document contract. All writes are merges: the
// store never clobbers fields the caller did not send.
type ProfileStore interface {
	Get(ctx context.Context) (*Profile, error)
	// Ensure creates the profile with defaults if it does not exist. Safe to
	// call repeatedly.
	Ensure(ctx context.Context) error
	CompleteOnboarding(ctx context.Context, draft OnboardingDraft) (*Profile, error)
}
