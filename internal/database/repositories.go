package database

import (
	"context"

	"github.com/imaginify/imaginify/internal/models"
)

// UserStore defines the interface for user repository operations.
// This interface enables better testability by allowing mock implementations.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, clerkID string, fields models.UserFields) (*models.User, error)
	Delete(ctx context.Context, clerkID string) (*models.User, error)
}

// Ensure the concrete type implements the interface
var _ UserStore = (*UserRepository)(nil)
