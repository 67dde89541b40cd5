package dto

import "time"

// RegisterRequest represents the account creation request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the sign-in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest carries a single-use verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest asks for a fresh verification mail
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// OnboardingRequest completes a profile in one write
type OnboardingRequest struct {
	DisplayName       string `json:"display_name" binding:"required"`
	Username          string `json:"username" binding:"required"`
	PracticeFrequency int    `json:"practice_frequency" binding:"required"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	Account      AccountResponse `json:"account"`
}

// AccountResponse represents account data in API responses
type AccountResponse struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"email_verified"`
	Disabled      bool       `json:"disabled"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// ProfileResponse represents a user profile in API responses
type ProfileResponse struct {
	UID                    string                  `json:"uid"`
	Email                  string                  `json:"email"`
	DisplayName            string                  `json:"display_name"`
	Username               string                  `json:"username"`
	CurrentGoal            string                  `json:"current_goal"`
	Level                  int                     `json:"level"`
	XP                     int                     `json:"xp"`
	CurrentStreak          int                     `json:"current_streak"`
	LongestStreak          int                     `json:"longest_streak"`
	IsOnboardingCompleted  bool                    `json:"is_onboarding_completed"`
	Settings               ProfileSettingsResponse `json:"settings"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
	TotalQuestionsAnswered int                     `json:"total_questions_answered"`
}

// ProfileSettingsResponse represents per-user settings in API responses
type ProfileSettingsResponse struct {
	DarkMode      bool `json:"dark_mode"`
	Notifications bool `json:"notifications"`
}

// ErrorResponse represents an error response. Code is a stable machine
// readable identifier; Message is for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}
