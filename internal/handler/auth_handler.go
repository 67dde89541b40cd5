package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heapsdsa/heapsauth/internal/dto"
	"github.com/heapsdsa/heapsauth/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles account creation
// @Summary Register a new account
// @Description Create an account and send a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	// Set refresh token in httpOnly cookie
	c.SetCookie("refresh_token", response.RefreshToken, response.ExpiresIn, "/api/v1/auth/refresh", "", true, true)

	c.JSON(http.StatusCreated, response.AuthResponse)
}

// Login handles sign-in
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	// Set refresh token in httpOnly cookie
	c.SetCookie("refresh_token", response.RefreshToken, response.ExpiresIn, "/api/v1/auth/refresh", "", true, true)

	c.JSON(http.StatusOK, response.AuthResponse)
}

// Refresh handles token refresh
// @Summary Refresh tokens
// @Description Rotate the refresh token and issue a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		// Native clients cannot use cookies; accept the token in the body too
		var req dto.RefreshTokenRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.RefreshToken == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad request",
				Message: "Refresh token not found in cookie or body",
			})
			return
		}
		refreshToken = req.RefreshToken
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	// Set new refresh token in httpOnly cookie
	c.SetCookie("refresh_token", response.RefreshToken, response.ExpiresIn, "/api/v1/auth/refresh", "", true, true)

	c.JSON(http.StatusOK, response.AuthResponse)
}

// Logout handles sign-out
// @Summary Logout
// @Description Revoke the refresh token and end the session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	refreshToken, _ := c.Cookie("refresh_token")
	if refreshToken == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	err := h.authService.Logout(c.Request.Context(), uid.(string), refreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
		return
	}

	// Clear refresh token cookie
	c.SetCookie("refresh_token", "", -1, "/api/v1/auth/refresh", "", true, true)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// GetMe handles reloading the current account
// @Summary Get current account
// @Description Return the authenticated account, including verification status
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	account, err := h.authService.GetAccount(c.Request.Context(), uid.(string))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// VerifyEmail handles consuming a verification token
// @Summary Verify email address
// @Description Consume a single-use verification token and mark the account verified
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailRequest true "Verification request"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	account, err := h.authService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// ResendVerification handles re-sending the verification email
// @Summary Resend verification email
// @Description Send a fresh verification email for an unverified account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationRequest true "Resend request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/verify/resend [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	err := h.authService.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "If the account exists and is unverified, a verification email has been sent",
	})
}
