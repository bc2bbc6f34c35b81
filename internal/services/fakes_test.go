package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/care-xyz/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory doubles for the repo, identity and mailer boundaries.

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) find(match func(*models.User) bool) *models.User {
	for _, u := range f.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	if u := f.find(func(u *models.User) bool { return u.UID == uid }); u != nil {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u := f.find(func(u *models.User) bool { return u.Email == email }); u != nil {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) InsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.users = append(f.users, user)
	return user, nil
}

// UpsertProfile mirrors the store contract: profile fields are always set,
// role and created_at only on insert.
func (f *fakeUserRepo) UpsertProfile(ctx context.Context, uid string, fields models.ProfileFields) error {
	if u := f.find(func(u *models.User) bool { return u.UID == uid }); u != nil {
		if fields.Name != "" {
			u.Name = fields.Name
		}
		u.Email = fields.Email
		u.Contact = fields.Contact
		u.NidNo = fields.NidNo
		u.ProfileComplete = true
		return nil
	}
	f.users = append(f.users, &models.User{
		UID:             uid,
		Name:            fields.Name,
		Email:           fields.Email,
		Contact:         fields.Contact,
		NidNo:           fields.NidNo,
		Role:            models.RoleUser,
		ProfileComplete: true,
		CreatedAt:       time.Now(),
	})
	return nil
}

func (f *fakeUserRepo) UpsertAdmin(ctx context.Context, admin *models.User) error {
	if u := f.find(func(u *models.User) bool { return u.Email == admin.Email }); u != nil {
		u.Role = models.RoleAdmin
		u.ProfileComplete = true
		u.PasswordHash = admin.PasswordHash
		return nil
	}
	f.users = append(f.users, admin)
	return nil
}

type fakeServiceRepo struct {
	services map[primitive.ObjectID]*models.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[primitive.ObjectID]*models.Service{}}
}

func (f *fakeServiceRepo) ListServices(ctx context.Context) ([]*models.Service, error) {
	out := []*models.Service{}
	for _, s := range f.services {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeServiceRepo) GetServiceByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeServiceRepo) CreateService(ctx context.Context, service *models.Service) (*models.Service, error) {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	f.services[service.ID] = service
	return service, nil
}

func (f *fakeServiceRepo) UpdateService(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	if _, ok := f.services[id]; !ok {
		return models.ErrNotFound
	}
	if raw, ok := fields["charge_per_hour"]; ok {
		f.services[id].ChargePerHour = raw.(float64)
	}
	if title, ok := fields["title"].(string); ok {
		f.services[id].Title = title
	}
	return nil
}

func (f *fakeServiceRepo) DeleteService(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.services[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.services, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*models.Booking
}

func (f *fakeBookingRepo) InsertBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings, nil
}

func (f *fakeBookingRepo) ListBookingsByUser(ctx context.Context, uid string) ([]*models.Booking, error) {
	out := []*models.Booking{}
	for _, b := range f.bookings {
		if b.UserID == uid {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = status
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeIdentity struct {
	nextUID string
	err     error
	calls   int
}

func (f *fakeIdentity) CreateAccount(email, password, name string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.nextUID, nil
}

// fakeMailer records sends on a channel so tests can wait for the
// fire-and-forget dispatch.
type fakeMailer struct {
	err  error
	sent chan string
}

func newFakeMailer(err error) *fakeMailer {
	return &fakeMailer{err: err, sent: make(chan string, 1)}
}

func (f *fakeMailer) SendBookingInvoice(to string, booking *models.Booking) error {
	f.sent <- to
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
