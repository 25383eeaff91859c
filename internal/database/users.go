package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/imaginify/imaginify/internal/models"
)

const usersCollection = "users"

// UserRepository handles user database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureIndexes creates the unique index on clerk_id. Called once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clerk_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}

// Create inserts a new user and assigns its internal id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	if user.InternalID.IsZero() {
		user.InternalID = bson.NewObjectID()
	}

	if _, err := coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: clerk id %q", ErrDuplicateUser, user.ClerkID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update overwrites the profile fields of the user matching clerkID and
// returns the updated record. Fields absent upstream arrive as empty strings
// and reset the stored values; this is an overwrite, not a merge.
func (r *UserRepository) Update(ctx context.Context, clerkID string, fields models.UserFields) (*models.User, error) {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": fields},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: clerk id %q", ErrUserNotFound, clerkID)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// Delete removes the user matching clerkID and returns the removed record
func (r *UserRepository) Delete(ctx context.Context, clerkID string) (*models.User, error) {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var deleted models.User
	err = coll.FindOneAndDelete(ctx, bson.M{"clerk_id": clerkID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: clerk id %q", ErrUserNotFound, clerkID)
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return &deleted, nil
}

// GetByClerkID retrieves a user by its Clerk id
func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = coll.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: clerk id %q", ErrUserNotFound, clerkID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
