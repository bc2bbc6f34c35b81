package handlers

import (
	"errors"
	"net/http"

	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/models"
	"github.com/gin-gonic/gin"
)

// statusFromError maps the domain error taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrProfileIncomplete), errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateUser):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, models.ErrorResponse(msg))
}

// currentUser pulls the principal the Auth middleware stored.
func currentUser(c *gin.Context) (*helpers.AuthUser, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	authUser, ok := userClaims.(*helpers.AuthUser)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, false
	}
	return authUser, true
}
