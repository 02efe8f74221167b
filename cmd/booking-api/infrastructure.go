// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/lock"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/postgres"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

const gracefulShutdownSeconds = 25

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth() (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            os.Getenv("JWKS_URL"),
		Audience:           os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS connects to NATS. A closed connection ends the process through
// done, and releases gracefulCloseWG once drained.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name(constants.ServiceName),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Expected as part of graceful shutdown.
				slog.Info("NATS connection closed gracefully")
			} else {
				slog.Error("NATS connection closed unexpectedly")
				// Signal that the service must shut down.
				done <- os.Interrupt
			}
			gracefulCloseWG.Done()
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		slog.With("nats_url", env.NatsURL, logging.ErrKey, err).Error("error creating NATS client")
		return nil, err
	}
	return natsConn, nil
}

// setupRepositories opens the configured storage backend. The returned
// closer releases backend resources not owned by the NATS connection.
func setupRepositories(ctx context.Context, env environment, natsConn *nats.Conn) (*domain.Repositories, func() error, error) {
	noop := func() error { return nil }

	switch env.StoreBackend {
	case storeBackendMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return store.NewMemoryRepositories(), noop, nil

	case storeBackendPostgres:
		db, err := postgres.Open(ctx, env.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewRepositories(db), closeDB(db), nil

	default:
		if natsConn == nil {
			return nil, nil, fmt.Errorf("the %s store backend needs a NATS connection", env.StoreBackend)
		}
		js, err := jetstream.New(natsConn)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating JetStream context: %w", err)
		}
		repos, err := store.NewNatsRepositories(ctx, js)
		if err != nil {
			return nil, nil, err
		}
		return repos, noop, nil
	}
}

func closeDB(db *sql.DB) func() error {
	return func() error {
		return db.Close()
	}
}

// setupRefreshLocker returns the lease used to coalesce token refreshes:
// Redis when REDIS_URL is set, otherwise an in-process lease.
func setupRefreshLocker(ctx context.Context, env environment) (domain.RefreshLocker, func() error, error) {
	if env.RedisURL == "" {
		slog.Info("REDIS_URL not set, token refreshes are coalesced per process only")
		return lock.NewLocalLocker(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(env.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client, err := lock.NewRedisClient(ctx, opts.Addr, opts.Password, opts.DB)
	if err != nil {
		return nil, nil, err
	}
	slog.With("addr", opts.Addr).Info("token refreshes are coalesced through Redis")
	return lock.NewRedisLocker(client), client.Close, nil
}

// createNatsSubscriptions subscribes the booking handler to its subjects in
// the service queue group.
func createNatsSubscriptions(ctx context.Context, handler *service.BookingHandler, natsConn *nats.Conn) error {
	subs, err := messaging.Subscribe(ctx, natsConn, constants.BookingAPIQueue, handler, handler.Subjects()...)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		slog.With("subject", sub.Subject, "queue", sub.Queue).Debug("subscribed to NATS subject")
	}
	return nil
}

// gracefulShutdown stops the HTTP server and drains NATS, waiting for both
// up to the shutdown deadline.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.With("graceful_shutdown_seconds", gracefulShutdownSeconds).Info("graceful shutdown started")

	// Cancel the background context.
	cancel()

	go func() {
		// Cancelling the context passed to Shutdown does not stop the shutdown, it
		// only stops waiting for it.
		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
		defer cancel()

		// Stop accepting new requests and wait for in-flight requests.
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		// Decrement the wait group.
		gracefulCloseWG.Done()
	}()

	if natsConn != nil && !natsConn.IsClosed() && !natsConn.IsDraining() {
		slog.Info("draining NATS connections")
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			// Skip waiting or checking error channel.
			return
		}
	}

	// Wait for the HTTP graceful shutdown and the NATS drain to complete.
	gracefulCloseWG.Wait()
	slog.Info("graceful shutdown complete")
}
