// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package providers

import (
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/platform"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/zoom/api"
)

// ZoomConfig holds Zoom-specific configuration
type ZoomConfig struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	TokenURL     string
}

// NewZoomConfigFromEnv creates a ZoomConfig from environment variables
func NewZoomConfigFromEnv() ZoomConfig {
	return ZoomConfig{
		ClientID:     os.Getenv("ZOOM_CLIENT_ID"),
		ClientSecret: os.Getenv("ZOOM_CLIENT_SECRET"),
		APIBaseURL:   os.Getenv("ZOOM_API_BASE_URL"),
		TokenURL:     envOrDefault("ZOOM_TOKEN_URL", oauth.ZoomTokenURL),
	}
}

// IsConfigured returns true if all required Zoom credentials are provided
func (z ZoomConfig) IsConfigured() bool {
	return z.ClientID != "" && z.ClientSecret != ""
}

// ToAPIConfig converts the ZoomConfig to an api.Config
func (z ZoomConfig) ToAPIConfig() api.Config {
	return api.Config{
		BaseURL:        z.APIBaseURL,
		Timeout:        clientTimeout,
		MaxRetries:     maxRetries,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
	}
}

// SetupZoom registers the Zoom meeting provider when Zoom is configured.
func SetupZoom(registry *platform.Registry, config ZoomConfig) {
	if !config.IsConfigured() {
		slog.Warn("Zoom integration not configured - missing required environment variables",
			"has_client_id", config.ClientID != "",
			"has_client_secret", config.ClientSecret != "")
		return
	}

	validator := oauth.NewZoomValidator(config.ClientID, config.ClientSecret, config.TokenURL)
	registry.RegisterMeetingProvider(zoom.NewProvider(api.NewClient(config.ToAPIConfig()), validator))

	slog.Info("Zoom integration configured", "client_id", config.ClientID)
}
