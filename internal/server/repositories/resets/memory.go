package resets

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	resets map[string]models.PasswordReset
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{resets: make(map[string]models.PasswordReset)}
}

func (r *MemoryRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.resets[token] = models.PasswordReset{UserID: userID, Token: token, Expires: now.Add(validity), CreatedAt: now}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, token string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pr, ok := r.resets[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &pr, nil
}
