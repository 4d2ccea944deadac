package services

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bikebed/internal/client/i18n"
	"github.com/dmitrijs2005/bikebed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bikebed/internal/logging"
	"golang.org/x/text/language"
)

// DeviceLocale reports the locale of the host, e.g. "es_ES.UTF-8".
type DeviceLocale func() string

// EnvLocale reads the POSIX locale variables in priority order.
func EnvLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// primarySubtag reduces a device locale to its language code: "es_ES.UTF-8"
// becomes "es". Unparseable values yield "".
func primarySubtag(raw string) string {
	raw, _, _ = strings.Cut(raw, ".")
	raw, _, _ = strings.Cut(raw, "@")
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" || raw == "C" || raw == "POSIX" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// LanguageService resolves, persists and serves the display language.
type LanguageService struct {
	table  *i18n.Table
	store  metadata.Repository
	device DeviceLocale
	log    logging.Logger

	mu          sync.RWMutex
	locale      string
	initialized bool
}

// NewLanguageService starts on i18n.DefaultLocale until Initialize runs.
// A nil device falls back to EnvLocale.
func NewLanguageService(table *i18n.Table, store metadata.Repository, device DeviceLocale, log logging.Logger) *LanguageService {
	if device == nil {
		device = EnvLocale
	}
	return &LanguageService{
		table:  table,
		store:  store,
		device: device,
		log:    log,
		locale: i18n.DefaultLocale,
	}
}

// Initialize picks the persisted locale, else a supported device locale
// (which is then persisted), else the default without persisting it.
func (l *LanguageService) Initialize(ctx context.Context) {
	locale := l.resolve(ctx)

	l.mu.Lock()
	l.locale = locale
	l.initialized = true
	l.mu.Unlock()
}

func (l *LanguageService) resolve(ctx context.Context) string {
	raw, err := l.store.Get(ctx, KeyLocale)
	if err != nil {
		l.log.Error(ctx, "locale read failed", "error", err)
		return i18n.DefaultLocale
	}
	if raw != nil {
		if stored := string(raw); l.table.Has(stored) {
			return stored
		}
		l.log.Warn(ctx, "stored locale is not supported", "locale", string(raw))
		return i18n.DefaultLocale
	}

	device := primarySubtag(l.device())
	if device == "" || !l.table.Has(device) {
		return i18n.DefaultLocale
	}
	if err := l.store.Set(ctx, KeyLocale, []byte(device)); err != nil {
		l.log.Warn(ctx, "device locale not persisted", "locale", device, "error", err)
	}
	return device
}

// ChangeLanguage switches to code and persists it. Unsupported codes and
// write failures return false; a failed write leaves the previous locale.
func (l *LanguageService) ChangeLanguage(ctx context.Context, code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if !l.table.Has(code) {
		return false
	}

	l.mu.Lock()
	prev := l.locale
	l.locale = code
	l.mu.Unlock()

	if err := l.store.Set(ctx, KeyLocale, []byte(code)); err != nil {
		l.log.Error(ctx, "locale not persisted", "locale", code, "error", err)
		l.mu.Lock()
		if l.locale == code {
			l.locale = prev
		}
		l.mu.Unlock()
		return false
	}
	return true
}

// Translate looks key up in the active locale, then in the default locale,
// and returns key itself when neither has it.
func (l *LanguageService) Translate(key string) string {
	locale := l.Locale()
	if v, ok := l.table.Lookup(locale, key); ok {
		return v
	}
	if v, ok := l.table.Lookup(i18n.DefaultLocale, key); ok {
		return v
	}
	return key
}

// Format is Translate with template data, e.g. {"Name": "Ana"}.
func (l *LanguageService) Format(key string, data map[string]any) string {
	return l.table.Format(l.Locale(), key, data)
}

func (l *LanguageService) Locale() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locale
}

// Loading is true until Initialize has run.
func (l *LanguageService) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.initialized
}

func (l *LanguageService) Supported() []string {
	return l.table.Locales()
}
