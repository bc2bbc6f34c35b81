package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/models"
	"github.com/care-xyz/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// Auth verifies the bearer credential and resolves the caller's directory
// record. The verified principal is stored in the context as
// *helpers.AuthUser; an authenticated caller without a directory record gets
// an empty role.
func Auth(verifier helpers.TokenVerifier, userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid or expired token"))
			c.Abort()
			return
		}

		authUser := &helpers.AuthUser{
			UID:   claims.Subject,
			Email: claims.Email,
			Name:  claims.Name(),
		}

		user, err := userService.FindByUID(c.Request.Context(), claims.Subject)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				logger.Error("directory lookup failed", "uid", claims.Subject, "error", err)
			}
		} else {
			authUser.Role = user.Role
			if user.Email != "" {
				authUser.Email = user.Email
			}
		}

		c.Set("user", authUser)
		c.Next()
	}
}

// RequireRole is the single authorization guard for role-gated routes. It
// must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userClaims, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		authUser, ok := userClaims.(*helpers.AuthUser)
		if !ok {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
			c.Abort()
			return
		}

		if !authUser.HasRole(role) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("forbidden: requires "+role+" role"))
			c.Abort()
			return
		}

		c.Next()
	}
}
