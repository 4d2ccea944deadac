// Package users declares the account repository and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/bikebed/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken e-mail
	// yields common.ErrUserAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns common.ErrorNotFound when nobody owns email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateMetadata replaces the stored metadata bag.
	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error
}
