package handlers

import (
	"net/http"

	"github.com/care-xyz/api/internal/models"
	"github.com/care-xyz/api/internal/services"
	"github.com/gin-gonic/gin"
)

func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		user, err := u.Register(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"uid": user.UID}, "User created successfully"))
	}
}

func CompleteProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authUser, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.CompleteProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		if err := u.CompleteProfile(c.Request.Context(), authUser.UID, authUser.Email, authUser.Name, input); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Profile completed successfully"))
	}
}

func AuthStatus(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authUser, ok := currentUser(c)
		if !ok {
			return
		}

		status, err := u.Status(c.Request.Context(), authUser.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

// InitAdmin seeds the default administrator from configuration. Idempotent.
func InitAdmin(u *services.UserService, adminEmail, adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminEmail == "" || adminPassword == "" {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("admin credentials not configured"))
			return
		}

		if err := u.EnsureDefaultAdmin(c.Request.Context(), adminEmail, adminPassword); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Admin initialized successfully"))
	}
}
