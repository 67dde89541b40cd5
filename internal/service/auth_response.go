package service

import (
	"context"
	"fmt"
	"time"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/internal/dto"
)

// AuthResponseWithRefreshToken contains auth response and refresh token
type AuthResponseWithRefreshToken struct {
	AuthResponse *dto.AuthResponse
	RefreshToken string
	ExpiresIn    int // Refresh token expiry in seconds
}

// generateAuthResponseWithRefreshToken generates access and refresh tokens and returns auth response with refresh token
func (s *authService) generateAuthResponseWithRefreshToken(ctx context.Context, account *domain.Account) (*AuthResponseWithRefreshToken, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(account.UID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Only the hash of the refresh token is persisted
	refreshTokenEntity := &domain.RefreshToken{
		UID:       account.UID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	}

	err = s.tokenRepo.Create(ctx, refreshTokenEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &AuthResponseWithRefreshToken{
		AuthResponse: &dto.AuthResponse{
			AccessToken: accessToken,
			// Returned in the body as well as the cookie, for clients
			// that cannot use cookies
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int64(s.jwtManager.GetAccessTokenExpiry()),
			Account:      accountToResponse(account),
		},
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.refreshTokenExpiry.Seconds()),
	}, nil
}

func accountToResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		UID:           account.UID,
		Email:         account.Email,
		EmailVerified: account.IsEmailVerified,
		Disabled:      account.IsDisabled,
		CreatedAt:     account.CreatedAt,
		LastLoginAt:   account.LastLoginAt,
	}
}
