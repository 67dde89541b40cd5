package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/internal/dto"
	"github.com/heapsdsa/heapsauth/internal/repository"
	"github.com/heapsdsa/heapsauth/internal/utils"
)

// Practice frequencies the onboarding wizard offers, in days per week
var allowedFrequencies = map[int]bool{1: true, 2: true, 3: true, 5: true, 7: true}

// profileService implements ProfileService interface
type profileService struct {
	profileRepo repository.ProfileRepository
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repository.ProfileRepository,
	accountRepo repository.AccountRepository,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Get returns the profile document for an account
func (s *profileService) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeProfileNotFound, "profile not found")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Ensure creates the profile document with defaults if it does not exist.
// Only verified accounts get a profile.
func (s *profileService) Ensure(ctx context.Context, uid string) error {
	account, err := s.accountRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewAuthError(CodeUserNotFound, "account not found")
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if !account.IsEmailVerified {
		return NewAuthError(CodeEmailNotVerified, "email address has not been verified")
	}

	if err := s.profileRepo.Ensure(ctx, uid, account.Email); err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// CompleteOnboarding validates the wizard result and merges it into the
// profile as a single write. Retrying after a partial failure is safe.
func (s *profileService) CompleteOnboarding(ctx context.Context, uid string, req *dto.OnboardingRequest) (*domain.UserProfile, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if !utils.ValidateDisplayName(displayName) {
		return nil, NewAuthError(CodeInvalidDisplayName, "display name must be at least 2 characters")
	}

	if !utils.ValidateUsername(req.Username) {
		return nil, NewAuthError(CodeInvalidUsername,
			"username must be at least 3 characters and contain only letters, numbers and underscores")
	}

	if !allowedFrequencies[req.PracticeFrequency] {
		return nil, NewAuthError(CodeInvalidFrequency, "practice frequency must be one of 1, 2, 3, 5 or 7")
	}

	account, err := s.accountRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewAuthError(CodeUserNotFound, "account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !account.IsEmailVerified {
		return nil, NewAuthError(CodeEmailNotVerified, "email address has not been verified")
	}

	data := domain.OnboardingData{
		DisplayName:       displayName,
		Username:          req.Username,
		PracticeFrequency: req.PracticeFrequency,
	}

	if err := s.profileRepo.CompleteOnboarding(ctx, uid, data); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile after onboarding: %w", err)
	}

	s.logger.Info("onboarding completed",
		zap.String("uid", uid),
		zap.Int("practice_frequency", req.PracticeFrequency))

	return profile, nil
}
