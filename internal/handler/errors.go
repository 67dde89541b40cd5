package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heapsdsa/heapsauth/internal/dto"
	"github.com/heapsdsa/heapsauth/internal/service"
)

// statusForCode maps provider error codes to HTTP statuses. Clients categorize
// by code, not status, so the mapping here only needs to be sensible.
var statusForCode = map[string]int{
	service.CodeInvalidEmail:       http.StatusBadRequest,
	service.CodeWeakPassword:       http.StatusBadRequest,
	service.CodeInvalidToken:       http.StatusBadRequest,
	service.CodeInvalidDisplayName: http.StatusBadRequest,
	service.CodeInvalidUsername:    http.StatusBadRequest,
	service.CodeInvalidFrequency:   http.StatusBadRequest,
	service.CodeEmailAlreadyInUse:  http.StatusConflict,
	service.CodeUserNotFound:       http.StatusUnauthorized,
	service.CodeWrongPassword:      http.StatusUnauthorized,
	service.CodeUserDisabled:       http.StatusForbidden,
	service.CodeEmailNotVerified:   http.StatusForbidden,
	service.CodeProfileNotFound:    http.StatusNotFound,
}

// writeError renders a service error. Coded errors keep their message and
// code; anything else becomes an opaque 500.
func writeError(c *gin.Context, err error) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		status, ok := statusForCode[authErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   http.StatusText(status),
			Code:    authErr.Code,
			Message: authErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: "an unexpected error occurred",
	})
}
