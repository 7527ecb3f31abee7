package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AR-Project/notesapp/internal/cache"
	"github.com/AR-Project/notesapp/internal/db"
	"github.com/AR-Project/notesapp/internal/handlers"
	"github.com/AR-Project/notesapp/internal/logger"
	"github.com/AR-Project/notesapp/internal/repository/postgres"
	"github.com/AR-Project/notesapp/internal/service/auth"
	"github.com/AR-Project/notesapp/internal/service/auth/tokenmanager"
	"github.com/AR-Project/notesapp/internal/service/notes"
	"github.com/AR-Project/notesapp/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	cleanup func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Listing cache: redis if configured, in-process otherwise
	var listingCache cache.Cache
	var closeRedis func()
	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			pool.Close()
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		listingCache = cache.NewRedis(client)
		closeRedis = func() { _ = client.Close() }
	} else {
		l.Warn("Redis address not set, using in-process listing cache")
		listingCache = cache.NewMemory()
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey: c.SecretKey,
		AccessTTL: c.AccessTokenAge,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	userService := user.NewService(auth.DefaultHasher, storage.User())
	authService, err := auth.NewService(tokenManager, userService, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	notesService, err := notes.NewService(
		notes.Config{ListingTTL: c.CacheTTL, Logger: l},
		storage.Note(),
		storage.Collaboration(),
		listingCache,
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating notes service. Err: %w", err)
	}

	mux := handlers.NewRouter(authService, userService, notesService, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     l,
		cleanup: func() {
			if closeRedis != nil {
				closeRedis()
			}
			pool.Close()
		},
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}
	defer s.cleanup()

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
