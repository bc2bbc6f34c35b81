package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService struct {
	serviceRepo models.ServiceRepo
	cld         *cloudinary.Cloudinary
}

func NewCatalogService(serviceRepo models.ServiceRepo, cld *cloudinary.Cloudinary) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		cld:         cld,
	}
}

type CreateServiceInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	ChargePerHour interface{} `json:"charge_per_hour"`
	Image         string      `json:"image"`
	Features      []string    `json:"features"`
}

// coerceCharge accepts the numeric-or-string forms clients send for the
// hourly charge and normalizes to a float.
func coerceCharge(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: charge_per_hour is not numeric", models.ErrValidation)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: charge_per_hour is required", models.ErrValidation)
	default:
		return 0, fmt.Errorf("%w: charge_per_hour is not numeric", models.ErrValidation)
	}
}

func (cs *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	return cs.serviceRepo.ListServices(ctx)
}

func (cs *CatalogService) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return cs.serviceRepo.GetServiceByID(ctx, objID)
}

func (cs *CatalogService) CreateService(ctx context.Context, input CreateServiceInput) (*models.Service, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: title, description and category are required", models.ErrValidation)
	}

	charge, err := coerceCharge(input.ChargePerHour)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	service := &models.Service{
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		ChargePerHour: charge,
		Features:      input.Features,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if service.Features == nil {
		service.Features = []string{}
	}

	if err := models.Validate.Struct(service); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	if input.Image != "" && cs.cld != nil {
		url, err := helpers.UploadImage(ctx, cs.cld, input.Image, helpers.ServiceFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload service image: %v", err)
		}
		service.ImageURL = url
	}

	return cs.serviceRepo.CreateService(ctx, service)
}

// UpdateService merges the supplied fields into the stored document.
// Identifier fields are stripped before the merge so a payload can never
// rewrite an _id.
func (cs *CatalogService) UpdateService(ctx context.Context, id string, fields map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return models.ErrInvalidID
	}

	delete(fields, "_id")
	delete(fields, "id")
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	if raw, ok := fields["charge_per_hour"]; ok {
		charge, err := coerceCharge(raw)
		if err != nil {
			return err
		}
		if charge <= 0 {
			return fmt.Errorf("%w: charge_per_hour must be positive", models.ErrValidation)
		}
		fields["charge_per_hour"] = charge
	}

	return cs.serviceRepo.UpdateService(ctx, objID, fields)
}

func (cs *CatalogService) DeleteService(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return models.ErrInvalidID
	}
	return cs.serviceRepo.DeleteService(ctx, objID)
}
