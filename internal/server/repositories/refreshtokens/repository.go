// Package refreshtokens stores the opaque refresh tokens issued at sign-in.
// Tokens are single-use: refreshing deletes the old row and inserts a new one.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
}
