package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/care-xyz/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validLocation() models.Location {
	return models.Location{
		Region:   "Dhaka",
		District: "Dhaka",
		City:     "Dhaka",
		Area:     "Banani",
		Address:  "House 12, Road 5",
	}
}

func seedBookingFixture() (*BookingService, *fakeUserRepo, *fakeServiceRepo, *fakeBookingRepo, *fakeMailer, primitive.ObjectID) {
	users := &fakeUserRepo{users: []*models.User{
		{UID: "uid-complete", Email: "complete@example.com", Role: models.RoleUser, ProfileComplete: true},
		{UID: "uid-incomplete", Email: "incomplete@example.com", Role: models.RoleUser, ProfileComplete: false},
	}}

	catalog := newFakeServiceRepo()
	svc, _ := catalog.CreateService(context.Background(), &models.Service{
		Title:         "Night Nanny",
		Description:   "Overnight newborn care",
		Category:      models.CategoryBabyCare,
		ChargePerHour: 20,
	})

	bookings := &fakeBookingRepo{}
	mail := newFakeMailer(nil)
	bs := NewBookingService(users, catalog, bookings, mail, testLogger())
	return bs, users, catalog, bookings, mail, svc.ID
}

func TestCreateBookingComputesCostFromCatalog(t *testing.T) {
	bs, _, _, bookings, mail, svcID := seedBookingFixture()

	booking, err := bs.CreateBooking(context.Background(), "uid-complete", "", CreateBookingInput{
		ServiceID: svcID.Hex(),
		Duration:  3,
		Location:  validLocation(),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if booking.TotalCost != 60.00 {
		t.Errorf("expected total cost 60.00, got %v", booking.TotalCost)
	}
	if booking.Status != models.StatusPending {
		t.Errorf("expected status %q, got %q", models.StatusPending, booking.Status)
	}
	if booking.ServiceName != "Night Nanny" {
		t.Errorf("expected service name snapshot, got %q", booking.ServiceName)
	}
	if booking.CreatedAt.IsZero() || booking.UpdatedAt.IsZero() {
		t.Error("timestamps were not stamped")
	}
	if len(bookings.bookings) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(bookings.bookings))
	}

	select {
	case to := <-mail.sent:
		if to != "complete@example.com" {
			t.Errorf("invoice sent to %q, expected directory email", to)
		}
	case <-time.After(time.Second):
		t.Error("invoice was never dispatched")
	}
}

func TestCreateBookingProfileIncomplete(t *testing.T) {
	bs, _, _, bookings, _, svcID := seedBookingFixture()

	input := CreateBookingInput{
		ServiceID: svcID.Hex(),
		Duration:  3,
		Location:  validLocation(),
	}

	for _, uid := range []string{"uid-incomplete", "uid-unknown"} {
		_, err := bs.CreateBooking(context.Background(), uid, "", input)
		if !errors.Is(err, models.ErrProfileIncomplete) {
			t.Errorf("uid %q: expected ErrProfileIncomplete, got %v", uid, err)
		}
	}

	if len(bookings.bookings) != 0 {
		t.Errorf("expected no bookings persisted, got %d", len(bookings.bookings))
	}
}

func TestCreateBookingValidation(t *testing.T) {
	bs, _, _, bookings, _, svcID := seedBookingFixture()

	cases := map[string]CreateBookingInput{
		"missing service id": {Duration: 3, Location: validLocation()},
		"zero duration":      {ServiceID: svcID.Hex(), Location: validLocation()},
		"negative duration":  {ServiceID: svcID.Hex(), Duration: -2, Location: validLocation()},
		"missing location":   {ServiceID: svcID.Hex(), Duration: 3},
		"malformed service":  {ServiceID: "not-an-object-id", Duration: 3, Location: validLocation()},
	}

	for name, input := range cases {
		_, err := bs.CreateBooking(context.Background(), "uid-complete", "", input)
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	if len(bookings.bookings) != 0 {
		t.Errorf("expected no bookings persisted, got %d", len(bookings.bookings))
	}
}

func TestCreateBookingServiceNotFound(t *testing.T) {
	bs, _, _, _, _, _ := seedBookingFixture()

	_, err := bs.CreateBooking(context.Background(), "uid-complete", "", CreateBookingInput{
		ServiceID: primitive.NewObjectID().Hex(),
		Duration:  3,
		Location:  validLocation(),
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBookingSurvivesMailFailure(t *testing.T) {
	users := &fakeUserRepo{users: []*models.User{
		{UID: "uid-complete", Email: "complete@example.com", Role: models.RoleUser, ProfileComplete: true},
	}}
	catalog := newFakeServiceRepo()
	svc, _ := catalog.CreateService(context.Background(), &models.Service{
		Title:         "Elderly Companion",
		Description:   "Daytime elderly care",
		Category:      models.CategoryElderlyCare,
		ChargePerHour: 15,
	})
	bookings := &fakeBookingRepo{}
	mail := newFakeMailer(fmt.Errorf("relay unreachable"))
	bs := NewBookingService(users, catalog, bookings, mail, testLogger())

	booking, err := bs.CreateBooking(context.Background(), "uid-complete", "", CreateBookingInput{
		ServiceID: svc.ID.Hex(),
		Duration:  2,
		Location:  validLocation(),
	})
	if err != nil {
		t.Fatalf("booking must not fail on mail errors, got: %v", err)
	}
	if booking == nil || len(bookings.bookings) != 1 {
		t.Fatal("booking was not persisted")
	}

	select {
	case <-mail.sent:
	case <-time.After(time.Second):
		t.Error("dispatch attempt never happened")
	}
}

func TestCreateBookingFallsBackToTokenEmail(t *testing.T) {
	users := &fakeUserRepo{users: []*models.User{
		{UID: "uid-complete", Email: "", Role: models.RoleUser, ProfileComplete: true},
	}}
	catalog := newFakeServiceRepo()
	svc, _ := catalog.CreateService(context.Background(), &models.Service{
		Title:         "Night Nanny",
		Description:   "Overnight newborn care",
		Category:      models.CategoryBabyCare,
		ChargePerHour: 20,
	})
	mail := newFakeMailer(nil)
	bs := NewBookingService(users, catalog, &fakeBookingRepo{}, mail, testLogger())

	_, err := bs.CreateBooking(context.Background(), "uid-complete", "claimed@example.com", CreateBookingInput{
		ServiceID: svc.ID.Hex(),
		Duration:  1,
		Location:  validLocation(),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	select {
	case to := <-mail.sent:
		if to != "claimed@example.com" {
			t.Errorf("expected fallback to token email, got %q", to)
		}
	case <-time.After(time.Second):
		t.Error("invoice was never dispatched")
	}
}

func TestConcurrentBookingsSameService(t *testing.T) {
	bs, _, _, bookings, mail, svcID := seedBookingFixture()

	durations := []int{3, 5}
	done := make(chan error, len(durations))
	for _, d := range durations {
		go func(d int) {
			_, err := bs.CreateBooking(context.Background(), "uid-complete", "", CreateBookingInput{
				ServiceID: svcID.Hex(),
				Duration:  d,
				Location:  validLocation(),
			})
			done <- err
		}(d)
	}
	for range durations {
		if err := <-done; err != nil {
			t.Fatalf("concurrent booking failed: %v", err)
		}
	}

	// Drain dispatches so the fake's buffered channel never blocks later tests.
	for range durations {
		select {
		case <-mail.sent:
		case <-time.After(time.Second):
			t.Fatal("missing invoice dispatch")
		}
	}

	costs := map[float64]bool{}
	for _, b := range bookings.bookings {
		costs[b.TotalCost] = true
	}
	if !costs[60.00] || !costs[100.00] {
		t.Errorf("expected costs 60.00 and 100.00 from the same catalog rate, got %v", costs)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	bs, _, _, bookings, mail, svcID := seedBookingFixture()

	booking, err := bs.CreateBooking(context.Background(), "uid-complete", "", CreateBookingInput{
		ServiceID: svcID.Hex(),
		Duration:  3,
		Location:  validLocation(),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	<-mail.sent

	if err := bs.UpdateBookingStatus(context.Background(), booking.ID.Hex(), "Approved"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
	if err := bs.UpdateBookingStatus(context.Background(), "nope", models.StatusConfirmed); !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if err := bs.UpdateBookingStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusConfirmed); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// No transition graph: Completed may be followed by Pending.
	for _, status := range []string{models.StatusConfirmed, models.StatusCompleted, models.StatusPending} {
		if err := bs.UpdateBookingStatus(context.Background(), booking.ID.Hex(), status); err != nil {
			t.Fatalf("status %q: %v", status, err)
		}
		if got := bookings.bookings[0].Status; got != status {
			t.Errorf("expected status %q, got %q", status, got)
		}
	}
}
