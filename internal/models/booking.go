package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// BookingStatuses is the full set of admin-settable statuses. Any status may
// be set from any other; there is no transition graph.
var BookingStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func IsValidBookingStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Location struct {
	Region   string `bson:"region" json:"region" validate:"required"`
	District string `bson:"district" json:"district" validate:"required"`
	City     string `bson:"city" json:"city" validate:"required"`
	Area     string `bson:"area" json:"area" validate:"required"`
	Address  string `bson:"address" json:"address" validate:"required"`
}

// Booking snapshots the service title and cost at creation time. Later
// catalog edits do not touch existing bookings.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        string             `bson:"user_id" json:"user_id"`
	ServiceID     string             `bson:"service_id" json:"service_id"`
	ServiceName   string             `bson:"service_name" json:"service_name"`
	Duration      int                `bson:"duration" json:"duration"`
	Location      Location           `bson:"location" json:"location"`
	TotalCost     float64            `bson:"total_cost" json:"total_cost"`
	Status        string             `bson:"status" json:"status"`
	ScheduledDate string             `bson:"scheduled_date,omitempty" json:"scheduled_date,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	ListBookings(ctx context.Context) ([]*Booking, error)
	ListBookingsByUser(ctx context.Context, uid string) ([]*Booking, error)
	UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context) ([]*Booking, error) {
	return mdb.findBookings(ctx, bson.M{})
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, uid string) ([]*Booking, error) {
	return mdb.findBookings(ctx, bson.M{"user_id": uid})
}

func (mdb *MongodbRepo) findBookings(ctx context.Context, filter bson.M) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	bookings := []*Booking{}
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &b)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, nil
}

func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	col, err := mdb.GetCollection(ctx, DBName, BookingCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating booking status: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
