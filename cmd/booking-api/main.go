// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the booking service API. It serves the booking routes over
// HTTP, answers the booking request/reply subjects on NATS, and schedules
// integration health checks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	_ "time/tzdata"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-booking-service/cmd/booking-api/providers"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/strategy"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/utils"
)

func main() {
	env, err := parseEnv()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid configuration")
		os.Exit(1)
	}
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig(flags.Debug)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry SDK")
		}
	}()

	// Set up JWT validator needed by the authenticated routes.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Initialize vendor providers
	providerRegistry := providers.NewRegistry(providers.NewConfigsFromEnv())

	// Setup NATS connection
	var natsConn *nats.Conn
	if env.NatsURL != "" {
		natsConn, err = setupNATS(ctx, env, &gracefulCloseWG, done)
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting up NATS")
			return
		}
	}

	repos, closeRepos, err := setupRepositories(ctx, env, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err, "backend", env.StoreBackend).Error("error setting up storage")
		return
	}
	defer func() {
		if err := closeRepos(); err != nil {
			slog.With(logging.ErrKey, err).Error("error closing storage")
		}
	}()

	locker, closeLocker, err := setupRefreshLocker(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up refresh lock")
		return
	}
	defer func() {
		if err := closeLocker(); err != nil {
			slog.With(logging.ErrKey, err).Error("error closing refresh lock")
		}
	}()

	// Initialize services
	serviceConfig := service.DefaultServiceConfig()
	tokens := strategy.NewTokenResolver(repos.Integrations, strategy.WithRefreshLocker(locker))
	factory := strategy.NewFactory(ctx, strategy.DefaultRegistry(), providerRegistry, strategy.Dependencies{
		Events:   repos.Events,
		Meetings: repos.Meetings,
		Tokens:   tokens,
		Pool:     concurrent.NewWorkerPool(2),
	})

	var publisher domain.BookingEventPublisher
	if natsConn != nil {
		publisher = messaging.NewMessageBuilder(natsConn)
	}
	bookingService := service.NewBookingService(repos, factory, publisher, serviceConfig)
	integrationService := service.NewIntegrationService(repos.Integrations, providerRegistry, tokens, serviceConfig)

	ready := func() bool {
		return natsConn == nil || natsConn.IsConnected()
	}
	api := NewBookingAPI(bookingService, integrationService, jwtAuth, ready)
	httpServer := setupHTTPServer(flags, api, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	if natsConn != nil {
		handler := service.NewBookingHandler(bookingService, integrationService)
		if err := createNatsSubscriptions(ctx, handler, natsConn); err != nil {
			slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
			return
		}
	}

	scheduler, err := setupHealthCheckScheduler(ctx, integrationService, env.HealthCheckInterval)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error scheduling integration health checks")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	if scheduler != nil {
		scheduler.Stop()
	}
	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
