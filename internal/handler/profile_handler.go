package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/internal/dto"
	"github.com/heapsdsa/heapsauth/internal/service"
)

// ProfileHandler handles profile document requests
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile handles reading the current profile
// @Summary Get current profile
// @Description Return the profile document for the authenticated account
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), uid.(string))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileToResponse(profile))
}

// EnsureProfile handles creating the profile document if it is missing
// @Summary Ensure profile exists
// @Description Create the profile document with defaults if it does not exist
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile/ensure [post]
func (h *ProfileHandler) EnsureProfile(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	err := h.profileService.Ensure(c.Request.Context(), uid.(string))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Profile is ready",
	})
}

// CompleteOnboarding handles the onboarding wizard result
// @Summary Complete onboarding
// @Description Merge the onboarding result into the profile in a single write
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.OnboardingRequest true "Onboarding result"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile/onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	var req dto.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.profileService.CompleteOnboarding(c.Request.Context(), uid.(string), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileToResponse(profile))
}

func profileToResponse(p *domain.UserProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UID:                   p.UID,
		Email:                 p.Email,
		DisplayName:           p.DisplayName,
		Username:              p.Username,
		CurrentGoal:           p.CurrentGoal,
		Level:                 p.Level,
		XP:                    p.XP,
		CurrentStreak:         p.CurrentStreak,
		LongestStreak:         p.LongestStreak,
		IsOnboardingCompleted: p.IsOnboardingCompleted,
		Settings: dto.ProfileSettingsResponse{
			DarkMode:      p.Settings.DarkMode,
			Notifications: p.Settings.Notifications,
		},
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
		TotalQuestionsAnswered: p.TotalQuestionsAnswered,
	}
}
