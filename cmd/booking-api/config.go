// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// Storage backends selectable with STORE_BACKEND.
const (
	storeBackendNATS     = "nats"
	storeBackendPostgres = "postgres"
	storeBackendMemory   = "memory"
)

const defaultHealthCheckInterval = 30 * time.Minute

// flags are the command line flags for the booking service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the booking service.
type environment struct {
	Port         string
	StoreBackend string
	NatsURL      string
	DatabaseURL  string
	RedisURL     string
	// HealthCheckInterval is zero when scheduled health checks are disabled.
	HealthCheckInterval time.Duration
}

// parseFlags parses command line flags for the booking service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the booking service
func parseEnv() (environment, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	switch backend {
	case "":
		backend = storeBackendNATS
	case storeBackendNATS, storeBackendPostgres, storeBackendMemory:
	default:
		return environment{}, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if backend == storeBackendPostgres && databaseURL == "" {
		return environment{}, fmt.Errorf("DATABASE_URL is required for the %s store backend", backend)
	}

	// NATS is optional unless it backs the store; without it there are no
	// request/reply subjects and no lifecycle events.
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" && backend == storeBackendNATS {
		natsURL = nats.DefaultURL
	}

	interval := defaultHealthCheckInterval
	if raw := os.Getenv("INTEGRATION_HEALTH_CHECK_INTERVAL"); raw != "" {
		parsed, err := parseInterval(raw)
		if err != nil {
			return environment{}, fmt.Errorf("invalid INTEGRATION_HEALTH_CHECK_INTERVAL: %w", err)
		}
		interval = parsed
	}

	return environment{
		Port:                port,
		StoreBackend:        backend,
		NatsURL:             natsURL,
		DatabaseURL:         databaseURL,
		RedisURL:            os.Getenv("REDIS_URL"),
		HealthCheckInterval: interval,
	}, nil
}

// parseInterval accepts a Go duration; a bare "0" disables the schedule.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "0" {
		return 0, nil
	}
	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if interval < 0 {
		return 0, fmt.Errorf("interval must not be negative, got %s", raw)
	}
	return interval, nil
}

// listenAddr joins the bind interface and port, "*" meaning every interface.
func listenAddr(f flags) string {
	if f.Bind == "*" {
		return ":" + f.Port
	}
	return f.Bind + ":" + f.Port
}
