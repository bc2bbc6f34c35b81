package routes

import (
	"github.com/care-xyz/api/internal/container"
	"github.com/care-xyz/api/internal/handlers"
	"github.com/care-xyz/api/internal/middleware"
	"github.com/care-xyz/api/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	auth := middleware.Auth(container.Verifier, container.UserService, container.Logger)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "carexyz-api",
			})
		})

		// public routes
		v1.GET("/services", handlers.ListServices(container.CatalogService))
		v1.GET("/services/:id", handlers.GetServiceByID(container.CatalogService))
		v1.POST("/auth/register", handlers.Register(container.UserService))
		v1.POST("/admin/init", handlers.InitAdmin(container.UserService, container.Config.AdminEmail, container.Config.AdminPassword))
	}

	authRoutes := v1.Group("/auth")
	authRoutes.Use(auth)
	{
		authRoutes.POST("/complete-profile", handlers.CompleteProfile(container.UserService))
		authRoutes.GET("/status", handlers.AuthStatus(container.UserService))
	}

	bookingRoutes := v1.Group("/bookings")
	bookingRoutes.Use(auth)
	{
		bookingRoutes.POST("", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("/my", handlers.ListMyBookings(container.BookingService))
		bookingRoutes.PATCH("/:id", adminOnly, handlers.UpdateBookingStatus(container.BookingService))
	}

	adminRoutes := v1.Group("/admin")
	adminRoutes.Use(auth, adminOnly)
	{
		adminRoutes.POST("/services", handlers.CreateService(container.CatalogService))
		adminRoutes.PATCH("/services/:id", handlers.UpdateService(container.CatalogService))
		adminRoutes.DELETE("/services/:id", handlers.DeleteService(container.CatalogService))
		adminRoutes.GET("/bookings", handlers.ListAllBookings(container.BookingService))
	}

	return r
}
