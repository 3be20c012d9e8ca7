// Package server wires the zentasks components together: it opens the store,
// builds the services and runs the HTTP API and the gRPC health service until
// a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bannakon/zentasks/internal/logging"
	"github.com/bannakon/zentasks/internal/server/auth"
	"github.com/bannakon/zentasks/internal/server/config"
	"github.com/bannakon/zentasks/internal/server/repositories/memory"
	"github.com/bannakon/zentasks/internal/server/repositories/repomanager"
	"github.com/bannakon/zentasks/internal/server/rest"
	"github.com/bannakon/zentasks/internal/server/services"

	gs "github.com/bannakon/zentasks/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	handler     *rest.Handlers
	authn       *rest.Authenticator
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, rm, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenIssuer(c)
	sessions := services.NewSessionManager(db, rm, c)
	us := services.NewUserService(db, rm)
	as := services.NewAuthService(db, rm, c, tokens, sessions)
	ts := services.NewTodoService(db, rm)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		handler:     rest.NewHandlers(as, us, ts, tokens, logger),
		authn:       rest.NewAuthenticator(tokens, us, logger),
	}, nil
}

// openStore returns a nil *sql.DB for the in-memory store.
func openStore(ctx context.Context, c *config.Config, l logging.Logger) (*sql.DB, repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		l.Warn(ctx, "Using in-memory store, data will not survive a restart")
		return nil, memory.NewInMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, rm, nil
}

// initSignalHandler cancels on a shutdown signal. The returned channel is
// closed once the handler has stopped listening, which happens when either a
// signal arrives or ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigs)

		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	return done
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := rest.NewRouter(app.handler, app.authn, app.logger)
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, router)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or one of the
// servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	signalsDone := app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	cancelFunc()
	<-signalsDone

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
