package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Known categories. The set is open: admins may introduce new ones, so
// category is not enum-enforced at the store level.
const (
	CategoryBabyCare    = "Baby Care"
	CategoryElderlyCare = "Elderly Care"
	CategorySickCare    = "Sick People Care"
)

type Service struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title" validate:"required"`
	Description   string             `bson:"description" json:"description" validate:"required"`
	Category      string             `bson:"category" json:"category" validate:"required"`
	ChargePerHour float64            `bson:"charge_per_hour" json:"charge_per_hour" validate:"required,gt=0"`
	ImageURL      string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Features      []string           `bson:"features" json:"features"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type ServiceRepo interface {
	ListServices(ctx context.Context) ([]*Service, error)
	GetServiceByID(ctx context.Context, id primitive.ObjectID) (*Service, error)
	CreateService(ctx context.Context, service *Service) (*Service, error)
	UpdateService(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	DeleteService(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) ListServices(ctx context.Context) ([]*Service, error) {
	col, err := mdb.GetCollection(ctx, DBName, ServiceCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error finding services: %v", err)
	}
	defer cursor.Close(ctx)

	services := []*Service{}
	for cursor.Next(ctx) {
		var svc Service
		if err := cursor.Decode(&svc); err != nil {
			return nil, fmt.Errorf("error decoding service: %v", err)
		}
		services = append(services, &svc)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return services, nil
}

func (mdb *MongodbRepo) GetServiceByID(ctx context.Context, id primitive.ObjectID) (*Service, error) {
	col, err := mdb.GetCollection(ctx, DBName, ServiceCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var svc Service
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding service by ID: %v", err)
	}

	return &svc, nil
}

func (mdb *MongodbRepo) CreateService(ctx context.Context, service *Service) (*Service, error) {
	col, err := mdb.GetCollection(ctx, DBName, ServiceCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, service); err != nil {
		return nil, fmt.Errorf("error inserting service: %v", err)
	}

	return service, nil
}

// UpdateService performs a partial merge. Callers must have stripped
// identifier fields from the payload already; the repo strips them again so
// an _id can never be overwritten.
func (mdb *MongodbRepo) UpdateService(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	col, err := mdb.GetCollection(ctx, DBName, ServiceCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	delete(fields, "_id")
	delete(fields, "id")
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	fields["updated_at"] = time.Now()

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating service: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (mdb *MongodbRepo) DeleteService(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, ServiceCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting service: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
