package service

import (
	"context"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResponseWithRefreshToken, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResponseWithRefreshToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponseWithRefreshToken, error)
	Logout(ctx context.Context, uid, refreshToken string) error
	GetAccount(ctx context.Context, uid string) (*dto.AccountResponse, error)
	VerifyEmail(ctx context.Context, token string) (*dto.AccountResponse, error)
	ResendVerification(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// ProfileService defines methods for profile document operations
type ProfileService interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	Ensure(ctx context.Context, uid string) error
	CompleteOnboarding(ctx context.Context, uid string, req *dto.OnboardingRequest) (*domain.UserProfile, error)
}
