package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the directory record keyed by the identity provider's subject id.
// A booking may only be created while ProfileComplete is true.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UID             string             `bson:"uid" json:"uid" validate:"required"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	Contact         string             `bson:"contact,omitempty" json:"contact,omitempty"`
	NidNo           string             `bson:"nid_no,omitempty" json:"nid_no,omitempty"`
	Role            string             `bson:"role" json:"role"`
	ProfileComplete bool               `bson:"profile_complete" json:"profile_complete"`
	PasswordHash    string             `bson:"password_hash,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileFields are the "set always" fields of an upsert. Role and
// created_at are deliberately absent: they are written only on insert.
type ProfileFields struct {
	Name    string
	Email   string
	Contact string
	NidNo   string
}

type UserRepo interface {
	FindByUID(ctx context.Context, uid string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	InsertUser(ctx context.Context, user *User) (*User, error)
	UpsertProfile(ctx context.Context, uid string, fields ProfileFields) error
	UpsertAdmin(ctx context.Context, admin *User) error
}

func (mdb *MongodbRepo) FindByUID(ctx context.Context, uid string) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	err = col.FindOne(ctx, bson.M{"uid": uid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user by uid: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user by email: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) InsertUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("error inserting user: %v", err)
	}

	return user, nil
}

// UpsertProfile merges the supplied fields into the record for uid, creating
// it if absent. Role and created_at are written with $setOnInsert so a later
// profile update can never reset them.
func (mdb *MongodbRepo) UpsertProfile(ctx context.Context, uid string, fields ProfileFields) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"uid":              uid,
		"email":            fields.Email,
		"contact":          fields.Contact,
		"nid_no":           fields.NidNo,
		"profile_complete": true,
	}
	if fields.Name != "" {
		set["name"] = fields.Name
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"role":       RoleUser,
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"uid": uid}, update, opts); err != nil {
		return fmt.Errorf("error upserting profile: %v", err)
	}

	return nil
}

// UpsertAdmin writes the seeded administrator record keyed by email.
func (mdb *MongodbRepo) UpsertAdmin(ctx context.Context, admin *User) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"name":             admin.Name,
		"email":            admin.Email,
		"role":             RoleAdmin,
		"profile_complete": true,
		"password_hash":    admin.PasswordHash,
		"created_at":       admin.CreatedAt,
	}
	// An empty uid (provider account pre-existed) must not clobber a linked one.
	if admin.UID != "" {
		set["uid"] = admin.UID
	}
	update := bson.M{"$set": set}

	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"email": admin.Email}, update, opts); err != nil {
		return fmt.Errorf("error upserting admin: %v", err)
	}

	return nil
}
