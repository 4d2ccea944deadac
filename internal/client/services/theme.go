package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bikebed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bikebed/internal/logging"
)

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// ThemeService holds the light/dark preference.
type ThemeService struct {
	store metadata.Repository
	log   logging.Logger

	mu   sync.RWMutex
	mode ThemeMode
}

func NewThemeService(store metadata.Repository, log logging.Logger) *ThemeService {
	return &ThemeService{store: store, log: log, mode: ThemeLight}
}

// Initialize restores a valid persisted mode; anything else keeps light.
func (t *ThemeService) Initialize(ctx context.Context) {
	raw, err := t.store.Get(ctx, KeyTheme)
	if err != nil {
		t.log.Error(ctx, "theme read failed", "error", err)
		return
	}
	mode := ThemeMode(raw)
	if !mode.Valid() {
		return
	}
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
}

func (t *ThemeService) SetMode(ctx context.Context, mode ThemeMode) bool {
	if !mode.Valid() {
		return false
	}

	t.mu.Lock()
	prev := t.mode
	t.mode = mode
	t.mu.Unlock()

	if err := t.store.Set(ctx, KeyTheme, []byte(mode)); err != nil {
		t.log.Error(ctx, "theme not persisted", "mode", string(mode), "error", err)
		t.mu.Lock()
		if t.mode == mode {
			t.mode = prev
		}
		t.mu.Unlock()
		return false
	}
	return true
}

// Toggle flips between light and dark. It returns the resulting mode and
// whether the flip was persisted; on failure the mode is unchanged.
func (t *ThemeService) Toggle(ctx context.Context) (ThemeMode, bool) {
	next := ThemeDark
	if t.IsDark() {
		next = ThemeLight
	}
	ok := t.SetMode(ctx, next)
	return t.Mode(), ok
}

func (t *ThemeService) Mode() ThemeMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func (t *ThemeService) IsDark() bool {
	return t.Mode() == ThemeDark
}
