// Package server wires the auth backend: storage, services and the gRPC
// endpoint, and runs it until a signal or context cancellation.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/server/config"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bikebed/internal/server/services"

	gs "github.com/dmitrijs2005/bikebed/internal/server/grpc"
)

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.OpenPostgres(ctx, dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var repos repomanager.RepositoryManager
	if c.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using in-memory storage; data is lost on exit")
		repos = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		repos, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	if err := repos.RunMigrations(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("db migrations error: %w", err), repos.Close())
	}

	us := services.NewUserService(repos, c, logger)
	as := services.NewAvatarService(c)
	limit := gs.RateLimit{PerMinute: c.SignInRatePerMinute, Burst: c.SignInBurst}

	return &App{
		config: c,
		logger: logger,
		repos:  repos,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, as, c.SecretKey, limit),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes storage.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	return errors.Join(runErr, app.repos.Close())
}
