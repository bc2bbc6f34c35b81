package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/mailer"
	"github.com/care-xyz/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService orchestrates the booking lifecycle: authorization checks,
// cost computation, persistence and the confirmation side effect.
type BookingService struct {
	userRepo    models.UserRepo
	serviceRepo models.ServiceRepo
	bookingRepo models.BookingRepo
	mailer      mailer.Mailer
	logger      *slog.Logger
}

func NewBookingService(
	userRepo models.UserRepo,
	serviceRepo models.ServiceRepo,
	bookingRepo models.BookingRepo,
	mail mailer.Mailer,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		bookingRepo: bookingRepo,
		mailer:      mail,
		logger:      logger,
	}
}

type CreateBookingInput struct {
	ServiceID     string          `json:"service_id" validate:"required"`
	Duration      int             `json:"duration" validate:"required,gt=0"`
	Location      models.Location `json:"location" validate:"required"`
	ScheduledDate string          `json:"scheduled_date"`
}

// CreateBooking runs the full workflow. The profile gate and the cost
// computation are re-checked here regardless of what the client already
// enforced: the booking record is the system of record for billing.
func (bs *BookingService) CreateBooking(ctx context.Context, uid, tokenEmail string, input CreateBookingInput) (*models.Booking, error) {
	user, err := bs.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrProfileIncomplete
		}
		return nil, fmt.Errorf("failed to resolve user: %v", err)
	}
	if !user.ProfileComplete {
		return nil, models.ErrProfileIncomplete
	}

	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	serviceID, err := primitive.ObjectIDFromHex(helpers.StringTrim(input.ServiceID))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", models.ErrValidation)
	}

	service, err := bs.serviceRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve service: %v", err)
	}

	// Cost is always computed from the live catalog rate, never taken from
	// the request.
	totalCost := service.ChargePerHour * float64(input.Duration)

	now := time.Now()
	booking := &models.Booking{
		UserID:        uid,
		ServiceID:     service.ID.Hex(),
		ServiceName:   service.Title,
		Duration:      input.Duration,
		Location:      input.Location,
		TotalCost:     totalCost,
		Status:        models.StatusPending,
		ScheduledDate: input.ScheduledDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := bs.bookingRepo.InsertBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	bs.dispatchInvoice(created, user.Email, tokenEmail)

	return created, nil
}

// dispatchInvoice fires the confirmation mail without blocking the response.
// The booking is already durable; a failed send is logged and absorbed.
func (bs *BookingService) dispatchInvoice(booking *models.Booking, userEmail, tokenEmail string) {
	to := userEmail
	if to == "" {
		to = tokenEmail
	}
	if to == "" {
		bs.logger.Warn("no recipient for booking invoice", "booking_id", booking.ID.Hex())
		return
	}

	go func() {
		if err := bs.mailer.SendBookingInvoice(to, booking); err != nil {
			bs.logger.Error("booking invoice send failed",
				"booking_id", booking.ID.Hex(),
				"to", to,
				"error", err,
			)
			return
		}
		bs.logger.Info("booking invoice sent", "booking_id", booking.ID.Hex(), "to", to)
	}()
}

func (bs *BookingService) ListMyBookings(ctx context.Context, uid string) ([]*models.Booking, error) {
	return bs.bookingRepo.ListBookingsByUser(ctx, uid)
}

func (bs *BookingService) ListAllBookings(ctx context.Context) ([]*models.Booking, error) {
	return bs.bookingRepo.ListBookings(ctx)
}

// UpdateBookingStatus applies an admin status change. Membership in the
// status enum is the only rule: the original system sets any status from any
// other, so no transition graph is enforced here.
func (bs *BookingService) UpdateBookingStatus(ctx context.Context, id, status string) error {
	if !models.IsValidBookingStatus(status) {
		return fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
	}

	objID, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return models.ErrInvalidID
	}

	return bs.bookingRepo.UpdateBookingStatus(ctx, objID, status)
}
