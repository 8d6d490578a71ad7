package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	emailIndex      = "email_1"
)

type MongoRepository struct {
	collection *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique email index the duplicate check relies on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndex),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, user User) (User, error) {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return User{}, classifyMongoError(err)
	}
	return user, nil
}

// classifyMongoError maps a duplicate key on the email index to
// ErrEmailExists. Other duplicates, such as an _id collision, stay internal.
func classifyMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) && duplicateOnEmail(err) {
		return fmt.Errorf("%w: %v", ErrEmailExists, err)
	}
	return fmt.Errorf("insert user: %w", err)
}

func duplicateOnEmail(err error) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return strings.Contains(err.Error(), "index: "+emailIndex)
	}
	for _, e := range we.WriteErrors {
		if len(e.Raw) > 0 {
			if _, lookupErr := e.Raw.LookupErr("keyPattern", "email"); lookupErr == nil {
				return true
			}
		}
		if strings.Contains(e.Message, "index: "+emailIndex) {
			return true
		}
	}
	return false
}
