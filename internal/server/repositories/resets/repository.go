// Package resets stores password-reset tokens.
package resets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/server/models"
)

type Repository interface {
	// Create records token for userID, expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	// Find returns common.ErrorNotFound when token is unknown.
	Find(ctx context.Context, token string) (*models.PasswordReset, error)
}
