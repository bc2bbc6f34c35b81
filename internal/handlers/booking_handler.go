package handlers

import (
	"net/http"

	"github.com/care-xyz/api/internal/models"
	"github.com/care-xyz/api/internal/services"
	"github.com/gin-gonic/gin"
)

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authUser, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		booking, err := bs.CreateBooking(c.Request.Context(), authUser.UID, authUser.Email, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking created"))
	}
}

func ListMyBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authUser, ok := currentUser(c)
		if !ok {
			return
		}

		bookings, err := bs.ListMyBookings(c.Request.Context(), authUser.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func ListAllBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := bs.ListAllBookings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func UpdateBookingStatus(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("status is required"))
			return
		}

		if err := bs.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking status updated"))
	}
}
