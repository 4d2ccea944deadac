package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/client/client"
	"github.com/dmitrijs2005/bikebed/internal/client/config"
	"github.com/dmitrijs2005/bikebed/internal/client/i18n"
	"github.com/dmitrijs2005/bikebed/internal/client/services"
	"github.com/dmitrijs2005/bikebed/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is the composition root: it owns every state service and the
// resources they share.
type App struct {
	config     *config.Config
	log        logging.Logger
	gateway    client.Client
	store      *client.Store
	auth       *services.AuthService
	lang       *services.LanguageService
	theme      *services.ThemeService
	onboarding *services.OnboardingService

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	mode   Mode
}

// newGateway is a seam for tests.
var newGateway = func(c *config.Config) (client.Client, error) {
	switch c.Gateway {
	case config.GatewayMock:
		return client.NewMockClient(c.MockDelay), nil
	case config.GatewayGRPC:
		return client.NewGRPCClient(c.ServerEndpointAddr)
	default:
		return nil, fmt.Errorf("%w: %q", client.ErrUnknownGateway, c.Gateway)
	}
}

// NewApp opens the device store and the gateway selected by c and wires the
// services over stdin/stdout.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := client.OpenStore(ctx, c.Store, c.DataFile)
	if err != nil {
		log.Error(ctx, "error opening device store", "store", c.Store, "file", c.DataFile, "error", err)
		return nil, err
	}

	gw, err := newGateway(c)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app, err := newApp(c, log, gw, store, os.Stdin, os.Stdout)
	if err != nil {
		_ = gw.Close()
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// loadTranslations is a seam for tests.
var loadTranslations = i18n.Default

func newApp(c *config.Config, log logging.Logger, gw client.Client, store *client.Store, in io.Reader, out io.Writer) (*App, error) {
	table, err := loadTranslations()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	return &App{
		config:     c,
		log:        log,
		gateway:    gw,
		store:      store,
		auth:       services.NewAuthService(gw, store.Metadata, log, c.GatewayTimeout),
		lang:       services.NewLanguageService(table, store.Metadata, services.EnvLocale, log),
		theme:      services.NewThemeService(store.Metadata, log),
		onboarding: services.NewOnboardingService(store.Metadata),
		reader:     bufio.NewReader(in),
		out:        out,
	}, nil
}

// Run restores persisted state, greets the user and blocks in the REPL
// until exit, EOF or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.auth.Restore(ctx)
	a.lang.Initialize(ctx)
	a.theme.Initialize(ctx)

	if a.config.OnlineCheckInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	a.greet(ctx)
	runREPL(ctx, a, a.reader, a.out)
	return nil
}

func (a *App) greet(ctx context.Context) {
	first, err := a.onboarding.IsFirstRun(ctx)
	if err != nil {
		a.log.Warn(ctx, "first-run flag unreadable", "error", err)
	}

	switch {
	case first:
		a.println(a.t("welcome"))
		if err := a.onboarding.Complete(ctx); err != nil {
			a.log.Warn(ctx, "first-run flag not saved", "error", err)
		}
	case a.auth.IsAuthenticated():
		a.println(a.lang.Format("welcome_back", map[string]any{"Name": displayName(a.auth.Session())}))
	default:
		a.println(a.t("app_name"))
	}
	a.help()
}

// Close releases the gateway and the device store.
func (a *App) Close() error {
	return errors.Join(a.gateway.Close(), a.store.Close())
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "gateway status changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the gateway every interval and records
// whether it answered. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.gateway.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) t(key string) string {
	return a.lang.Translate(key)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) help() {
	if a.isLoggedIn() {
		a.println(a.t("help_user"))
	} else {
		a.println(a.t("help_guest"))
	}
}

// status is shown in the prompt: "(ana@example.com host, offline)".
func (a *App) status() string {
	s := ""
	if sess := a.auth.Session(); sess != nil {
		s = sess.Email + " " + sess.Role()
	}
	if m := a.Mode(); m != "" {
		if s != "" {
			s += ", "
		}
		s += a.t("status_" + string(m))
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
