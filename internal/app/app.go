package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jokes-api/internal/auth"
	"jokes-api/internal/config"
	"jokes-api/internal/database"
	"jokes-api/internal/event"
	"jokes-api/internal/handler"
	"jokes-api/internal/jokeapi"
	"jokes-api/internal/middleware"
	"jokes-api/internal/repository"
	"jokes-api/internal/router"
	"jokes-api/internal/scheduler"
	"jokes-api/internal/service"
	"jokes-api/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	scheduler    *scheduler.Scheduler
	cleanupFuncs []func()
}

type stores struct {
	users  repository.UserRepository
	jokes  repository.JokeRepository
	health func(ctx context.Context) error
	close  func()
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		mem := repository.NewMemoryStore()
		return stores{users: mem.Users(), jokes: mem.Jokes(), close: func() {}}, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return stores{}, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("database ready")

	return stores{
		users:  repository.NewUserRepository(db.Pool),
		jokes:  repository.NewJokeRepository(db.Pool),
		health: db.Health,
		close:  db.Close,
	}, nil
}

func New(cfg *config.Config) (*App, error) {
	slog.Info("configuration loaded", "config", cfg.String())

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	bus := event.NewBus()
	bgCtx, bgCancel := context.WithCancel(context.Background())
	go event.LogSink(bgCtx, bus)
	hub := websocket.NewHub(bus)
	go hub.Run(bgCtx)

	userService := service.NewUserService(st.users, hasher, bus)
	authService := service.NewAuthService(st.users, hasher, tokens)
	jokeService := service.NewJokeService(st.jokes, auth.NewAuthorizer(st.users), bus)

	fetcher := jokeapi.NewClient(cfg.JokeAPIURL, cfg.JokeFetchTimeout)
	fetchJob := service.NewFetchJokeJob(jokeService, fetcher, cfg.JokeFetchTimeout)

	sched := scheduler.New()
	if cfg.JokeFetchEnabled {
		err := sched.Add("fetch-joke", cfg.JokeFetchSpec, func(ctx context.Context) {
			fetchJob.Run(ctx)
		})
		if err != nil {
			bgCancel()
			st.close()
			return nil, fmt.Errorf("failed to schedule joke fetch: %w", err)
		}
	} else {
		slog.Info("scheduled joke fetch disabled")
	}

	var healthHandler *handler.HealthHandler
	if st.health != nil {
		healthHandler = handler.NewHealthHandler(pingFunc(st.health), fetchJob)
	} else {
		healthHandler = handler.NewHealthHandler(nil, fetchJob)
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, userService),
		User:   handler.NewUserHandler(userService, authService),
		Joke:   handler.NewJokeHandler(jokeService, fetcher),
		Jobs:   handler.NewJobsHandler(fetchJob, cfg.JokeFetchSpec, cfg.JokeFetchEnabled),
		Health: healthHandler,
		Events: hub,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:    server,
		scheduler: sched,
		cleanupFuncs: []func(){
			bgCancel,
			st.close,
		},
	}, nil
}

// Handler exposes the fully wired router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	a.scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("shutdown requested", "signal", sig.String())
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	return errors.Join(runErr, a.Shutdown())
}

// Shutdown stops the HTTP server first, then the scheduler, then the stores.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("graceful shutdown failed: %w", err))
	}

	if err := a.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return errors.Join(errs...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Health(ctx context.Context) error {
	return f(ctx)
}
