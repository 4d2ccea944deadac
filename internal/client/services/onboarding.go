package services

import (
	"context"

	"github.com/dmitrijs2005/bikebed/internal/client/repositories/metadata"
)

// OnboardingService tracks whether the welcome flow has been shown.
type OnboardingService struct {
	store metadata.Repository
}

func NewOnboardingService(store metadata.Repository) *OnboardingService {
	return &OnboardingService{store: store}
}

// IsFirstRun is true while the first-run key is absent. A read error is
// returned with true so callers show the welcome flow again.
func (o *OnboardingService) IsFirstRun(ctx context.Context) (bool, error) {
	v, err := o.store.Get(ctx, KeyFirstRun)
	if err != nil {
		return true, err
	}
	return v == nil, nil
}

func (o *OnboardingService) Complete(ctx context.Context) error {
	return o.store.Set(ctx, KeyFirstRun, []byte("1"))
}
