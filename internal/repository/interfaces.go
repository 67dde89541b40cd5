package repository

import (
	"context"

	"github.com/heapsdsa/heapsauth/internal/domain"
)

// AccountRepository defines methods for identity-account operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUID(ctx context.Context, uid string) (*domain.Account, error)
	MarkEmailVerified(ctx context.Context, uid string) error
	UpdateLastLogin(ctx context.Context, uid string) error
}

// TokenRepository defines methods for refresh-token operations
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}

// VerificationTokenRepository defines methods for single-use email-verification tokens
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *domain.VerificationToken) error
	// Consume atomically marks an unused, unexpired token as used and returns
	// it. A missing, expired or already-used token yields ErrTokenConsumed.
	Consume(ctx context.Context, tokenHash string) (*domain.VerificationToken, error)
	DeleteExpired(ctx context.Context) error
}

// ProfileRepository defines merge-write operations on user profile documents.
// There is deliberately no full-document replace: every write is a partial
// update so unrelated feature fields are never clobbered.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	// Ensure creates the profile document with default fields if it does not
	// exist. Calling it again for the same uid is a no-op; existing xp and
	// streak fields are never touched.
	Ensure(ctx context.Context, uid, email string) error
	// CompleteOnboarding merges the onboarding result into the profile and
	// sets isOnboardingCompleted. Safe to retry.
	CompleteOnboarding(ctx context.Context, uid string, data domain.OnboardingData) error
	TouchLastLogin(ctx context.Context, uid string) error
}
