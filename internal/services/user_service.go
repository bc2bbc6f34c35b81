package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo models.UserRepo
	identity models.IdentityRepo
	logger   *slog.Logger
}

func NewUserService(userRepo models.UserRepo, identity models.IdentityRepo, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		identity: identity,
		logger:   logger,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Contact  string `json:"contact" validate:"required"`
	NidNo    string `json:"nid_no" validate:"required"`
}

// Register creates the identity-provider account and the directory record.
// The directory is checked first so a duplicate does not leave an orphaned
// provider account; a provider-side duplicate is still possible and is
// rejected the same way.
func (us *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	if !helpers.IsPasswordStrong(input.Password) {
		return nil, fmt.Errorf("%w: password is not strong enough", models.ErrValidation)
	}

	existing, err := us.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %v", err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateUser
	}

	uid, err := us.identity.CreateAccount(input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("identity provider signup failed: %v", err)
	}

	user := &models.User{
		UID:             uid,
		Name:            input.Name,
		Email:           input.Email,
		Contact:         input.Contact,
		NidNo:           input.NidNo,
		Role:            models.RoleUser,
		ProfileComplete: true,
		CreatedAt:       time.Now(),
	}

	return us.userRepo.InsertUser(ctx, user)
}

type CompleteProfileInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact" validate:"required"`
	NidNo   string `json:"nid_no" validate:"required"`
}

// CompleteProfile upserts the directory record for a caller who
// authenticated through the provider (e.g. a social login) and is filling in
// the fields bookings require. Role and created_at survive repeat calls.
func (us *UserService) CompleteProfile(ctx context.Context, uid, email, claimedName string, input CompleteProfileInput) error {
	if err := models.Validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	name := input.Name
	if name == "" {
		name = claimedName
	}

	fields := models.ProfileFields{
		Name:    name,
		Email:   email,
		Contact: input.Contact,
		NidNo:   input.NidNo,
	}

	return us.userRepo.UpsertProfile(ctx, uid, fields)
}

type AuthStatus struct {
	Exists          bool   `json:"exists"`
	ProfileComplete bool   `json:"profile_complete"`
	Role            string `json:"role,omitempty"`
}

// Status reports whether the authenticated caller has a directory record and
// whether it is booking-ready. An absent record is not an error.
func (us *UserService) Status(ctx context.Context, uid string) (*AuthStatus, error) {
	user, err := us.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &AuthStatus{Exists: false, ProfileComplete: false}, nil
		}
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}

	return &AuthStatus{
		Exists:          true,
		ProfileComplete: user.ProfileComplete,
		Role:            user.Role,
	}, nil
}

func (us *UserService) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return us.userRepo.FindByUID(ctx, uid)
}

// EnsureDefaultAdmin idempotently seeds the super-admin account from
// configuration. Safe to call on every boot and from the init endpoint.
func (us *UserService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin credentials not configured", models.ErrValidation)
	}

	existing, err := us.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check existing admin: %v", err)
	}
	if existing != nil {
		return nil
	}

	uid, err := us.identity.CreateAccount(email, password, "Super Admin")
	if err != nil {
		if !errors.Is(err, models.ErrDuplicateUser) {
			return fmt.Errorf("failed to create admin provider account: %v", err)
		}
		// Provider account already exists; the directory record is still
		// seeded and the uid is linked on the admin's next profile upsert.
		us.logger.Warn("admin provider account already exists", "email", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := &models.User{
		UID:             uid,
		Name:            "Super Admin",
		Email:           email,
		Role:            models.RoleAdmin,
		ProfileComplete: true,
		PasswordHash:    string(hashed),
		CreatedAt:       time.Now(),
	}

	return us.userRepo.UpsertAdmin(ctx, admin)
}
