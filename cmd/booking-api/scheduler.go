// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

const healthCheckJobTag = "integration-health-check"

// healthChecker probes every connected integration.
type healthChecker interface {
	CheckIntegrationHealth(ctx context.Context) ([]models.IntegrationHealth, error)
}

// setupHealthCheckScheduler runs checker every interval. It returns nil when
// interval is zero.
func setupHealthCheckScheduler(ctx context.Context, checker healthChecker, interval time.Duration) (*gocron.Scheduler, error) {
	if interval <= 0 {
		slog.Info("integration health checks disabled")
		return nil, nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	// A slow run must not overlap with the next one.
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).
		WaitForSchedule().
		Tag(healthCheckJobTag).
		Do(runHealthCheck, ctx, checker)
	if err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	slog.With("interval", interval.String()).Info("integration health checks scheduled")
	return scheduler, nil
}

func runHealthCheck(ctx context.Context, checker healthChecker) {
	if ctx.Err() != nil {
		return
	}
	slog.DebugContext(ctx, "running integration health check")

	results, err := checker.CheckIntegrationHealth(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "integration health check failed", logging.ErrKey, err)
		return
	}

	unhealthy := 0
	for _, result := range results {
		if !result.Healthy {
			unhealthy++
		}
	}
	slog.InfoContext(ctx, "integration health check complete",
		"checked", len(results),
		"unhealthy", unhealthy,
	)
}
