// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package providers builds the meeting and calendar providers of the booking
// service from environment variables. A vendor whose credentials are missing
// is left out of the registry, so the strategies that need it report
// themselves unavailable instead of failing at call time.
package providers

import (
	"os"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/platform"
)

// Retry settings shared by every vendor REST client.
const (
	clientTimeout  = 15 * time.Second
	maxRetries     = 3
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Configs holds configuration for all supported vendors.
type Configs struct {
	Zoom      ZoomConfig
	Google    GoogleConfig
	Microsoft MicrosoftConfig
}

// NewConfigsFromEnv creates vendor configurations from environment variables.
func NewConfigsFromEnv() Configs {
	return Configs{
		Zoom:      NewZoomConfigFromEnv(),
		Google:    NewGoogleConfigFromEnv(),
		Microsoft: NewMicrosoftConfigFromEnv(),
	}
}

// NewRegistry registers the provider of every configured vendor.
func NewRegistry(configs Configs) *platform.Registry {
	registry := platform.NewRegistry()

	SetupZoom(registry, configs.Zoom)
	SetupGoogle(registry, configs.Google)
	SetupMicrosoft(registry, configs.Microsoft)

	return registry
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
