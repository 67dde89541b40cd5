package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/internal/dto"
	"github.com/heapsdsa/heapsauth/internal/queue"
	"github.com/heapsdsa/heapsauth/internal/repository"
	"github.com/heapsdsa/heapsauth/internal/utils"
	"github.com/heapsdsa/heapsauth/pkg/observability"
)

// authService implements AuthService interface
type authService struct {
	accountRepo        repository.AccountRepository
	tokenRepo          repository.TokenRepository
	verificationRepo   repository.VerificationTokenRepository
	profileRepo        repository.ProfileRepository
	jwtManager         *utils.JWTManager
	blacklistService   *TokenBlacklistService
	publisher          queue.Publisher
	logger             *zap.Logger
	metrics            *observability.AuthMetrics
	bcryptCost         int
	passwordMinLength  int
	refreshTokenExpiry time.Duration
	verificationExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo repository.AccountRepository,
	tokenRepo repository.TokenRepository,
	verificationRepo repository.VerificationTokenRepository,
	profileRepo repository.ProfileRepository,
	jwtManager *utils.JWTManager,
	blacklistService *TokenBlacklistService,
	publisher queue.Publisher,
	logger *zap.Logger,
	metrics *observability.AuthMetrics,
	bcryptCost int,
	passwordMinLength int,
	refreshTokenExpiry time.Duration,
	verificationExpiry time.Duration,
) AuthService {
	return &authService{
		accountRepo:        accountRepo,
		tokenRepo:          tokenRepo,
		verificationRepo:   verificationRepo,
		profileRepo:        profileRepo,
		jwtManager:         jwtManager,
		blacklistService:   blacklistService,
		publisher:          publisher,
		logger:             logger,
		metrics:            metrics,
		bcryptCost:         bcryptCost,
		passwordMinLength:  passwordMinLength,
		refreshTokenExpiry: refreshTokenExpiry,
		verificationExpiry: verificationExpiry,
	}
}

// Register creates a new account and sends a verification mail. The returned
// session belongs to an unverified account; clients are expected to keep the
// user on the verification screen until VerifyEmail succeeds.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResponseWithRefreshToken, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, NewAuthError(CodeInvalidEmail, "invalid email format")
	}

	if !utils.ValidatePassword(req.Password, s.passwordMinLength) {
		return nil, NewAuthError(CodeWeakPassword,
			fmt.Sprintf("password must be at least %d characters long", s.passwordMinLength))
	}

	email := utils.SanitizeEmail(req.Email)

	// Check if account already exists
	_, err := s.accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, NewAuthError(CodeEmailAlreadyInUse, "an account with this email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:           email,
		PasswordHash:    passwordHash,
		IsDisabled:      false,
		IsEmailVerified: false,
	}

	err = s.accountRepo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, NewAuthError(CodeEmailAlreadyInUse, "an account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Mail delivery is fire and forget; registration never fails on it
	s.issueVerification(ctx, account)

	s.metrics.IncRegistrations(ctx)

	return s.generateAuthResponseWithRefreshToken(ctx, account)
}

// Login authenticates an account. Unverified accounts are refused: the session
// issued at registration is the only one they get until verification, and a
// courtesy verification mail is re-sent on each refused attempt.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResponseWithRefreshToken, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, NewAuthError(CodeInvalidEmail, "invalid email format")
	}

	account, err := s.accountRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeUserNotFound, "no account found for this email")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.IsDisabled {
		return nil, NewAuthError(CodeUserDisabled, "this account has been disabled")
	}

	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		return nil, NewAuthError(CodeWrongPassword, "incorrect password")
	}

	if !account.IsEmailVerified {
		s.issueVerification(ctx, account)
		return nil, NewAuthError(CodeEmailNotVerified, "email address has not been verified")
	}

	err = s.accountRepo.UpdateLastLogin(ctx, account.UID)
	if err != nil {
		s.logger.Warn("failed to update last login", zap.String("uid", account.UID), zap.Error(err))
	}

	if err := s.profileRepo.TouchLastLogin(ctx, account.UID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("failed to touch profile last login", zap.String("uid", account.UID), zap.Error(err))
	}

	s.metrics.IncLogins(ctx)

	return s.generateAuthResponseWithRefreshToken(ctx, account)
}

// RefreshToken refreshes access and refresh tokens
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponseWithRefreshToken, error) {
	uid, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, NewAuthError(CodeInvalidToken, "invalid refresh token")
	}

	tokenHash := s.hashToken(refreshToken)

	dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeInvalidToken, "invalid refresh token")
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if time.Now().After(dbToken.ExpiresAt) {
		return nil, NewAuthError(CodeInvalidToken, "refresh token expired")
	}

	isBlacklisted, err := s.blacklistService.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, NewAuthError(CodeInvalidToken, "refresh token has been revoked")
	}

	account, err := s.accountRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeUserNotFound, "account no longer exists")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.IsDisabled {
		return nil, NewAuthError(CodeUserDisabled, "this account has been disabled")
	}

	// Rotate: the old refresh token is blacklisted and removed
	err = s.blacklistService.AddToken(ctx, refreshToken, s.refreshTokenExpiry)
	if err != nil {
		s.logger.Warn("failed to blacklist rotated refresh token", zap.Error(err))
	}

	err = s.tokenRepo.DeleteByTokenHash(ctx, tokenHash)
	if err != nil {
		s.logger.Warn("failed to delete rotated refresh token", zap.Error(err))
	}

	return s.generateAuthResponseWithRefreshToken(ctx, account)
}

// Logout revokes a refresh token. Missing or foreign tokens are ignored so
// logout is always safe to call.
func (s *authService) Logout(ctx context.Context, uid, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := s.hashToken(refreshToken)

	dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil || dbToken.UID != uid {
		return nil
	}

	err = s.blacklistService.AddToken(ctx, refreshToken, s.refreshTokenExpiry)
	if err != nil {
		s.logger.Warn("failed to blacklist refresh token on logout", zap.Error(err))
	}

	err = s.tokenRepo.DeleteByTokenHash(ctx, tokenHash)
	if err != nil {
		s.logger.Warn("failed to delete refresh token on logout", zap.Error(err))
	}

	return nil
}

// GetAccount returns the current account state, including verification status.
// Clients poll this after sending a verification mail.
func (s *authService) GetAccount(ctx context.Context, uid string) (*dto.AccountResponse, error) {
	account, err := s.accountRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeUserNotFound, "account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	response := accountToResponse(account)
	return &response, nil
}

// VerifyEmail consumes a single-use verification token and marks the account
// verified. The profile document is created here, not at registration, so
// unverified accounts never own a profile.
func (s *authService) VerifyEmail(ctx context.Context, token string) (*dto.AccountResponse, error) {
	if token == "" {
		return nil, NewAuthError(CodeInvalidToken, "verification token is required")
	}

	dbToken, err := s.verificationRepo.Consume(ctx, s.hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return nil, NewAuthError(CodeInvalidToken, "verification token is invalid, expired or already used")
		}
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}

	account, err := s.accountRepo.GetByUID(ctx, dbToken.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !account.IsEmailVerified {
		err = s.accountRepo.MarkEmailVerified(ctx, account.UID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		account.IsEmailVerified = true
		s.metrics.IncVerifications(ctx)
	}

	if err := s.profileRepo.Ensure(ctx, account.UID, account.Email); err != nil {
		s.logger.Error("failed to ensure profile after verification",
			zap.String("uid", account.UID), zap.Error(err))
	}

	s.publish(ctx, queue.KeyAccountVerified, queue.AccountVerified{
		UID:        account.UID,
		Email:      account.Email,
		VerifiedAt: time.Now(),
	})

	response := accountToResponse(account)
	return &response, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account. Already-verified accounts and unknown emails are a silent no-op so
// the endpoint does not leak which addresses are registered.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	if !utils.ValidateEmail(email) {
		return NewAuthError(CodeInvalidEmail, "invalid email format")
	}

	account, err := s.accountRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if account.IsEmailVerified || account.IsDisabled {
		return nil
	}

	s.issueVerification(ctx, account)
	return nil
}

// ValidateToken validates an access token
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	isBlacklisted, err := s.blacklistService.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, NewAuthError(CodeInvalidToken, "token has been revoked")
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, NewAuthError(CodeInvalidToken, "invalid token")
	}

	return claims, nil
}

// issueVerification stores a new single-use token and hands the raw token to
// the mailer via the event queue. Failures are logged, never surfaced: the
// caller's operation must not depend on mail delivery.
func (s *authService) issueVerification(ctx context.Context, account *domain.Account) {
	rawToken := uuid.New().String()
	now := time.Now()

	token := &domain.VerificationToken{
		UID:       account.UID,
		TokenHash: s.hashToken(rawToken),
		ExpiresAt: now.Add(s.verificationExpiry),
	}

	if err := s.verificationRepo.Create(ctx, token); err != nil {
		s.logger.Error("failed to store verification token",
			zap.String("uid", account.UID), zap.Error(err))
		return
	}

	s.publish(ctx, queue.KeyVerificationRequested, queue.VerificationRequested{
		UID:         account.UID,
		Email:       account.Email,
		Token:       rawToken,
		ExpiresAt:   token.ExpiresAt,
		RequestedAt: now,
	})
}

func (s *authService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Error("failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}

// hashToken hashes a token using SHA256
func (s *authService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
