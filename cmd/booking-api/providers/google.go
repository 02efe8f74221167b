// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package providers

import (
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/platform"
)

// GoogleConfig holds Google Calendar configuration
type GoogleConfig struct {
	ClientID           string
	ClientSecret       string
	CalendarAPIBaseURL string
	TokenURL           string
}

// NewGoogleConfigFromEnv creates a GoogleConfig from environment variables
func NewGoogleConfigFromEnv() GoogleConfig {
	return GoogleConfig{
		ClientID:           os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:       os.Getenv("GOOGLE_CLIENT_SECRET"),
		CalendarAPIBaseURL: os.Getenv("GOOGLE_CALENDAR_API_BASE_URL"),
		TokenURL:           envOrDefault("GOOGLE_TOKEN_URL", oauth.GoogleTokenURL),
	}
}

// IsConfigured returns true if all required Google credentials are provided
func (g GoogleConfig) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// ToAPIConfig converts the GoogleConfig to an api.Config
func (g GoogleConfig) ToAPIConfig() api.Config {
	return api.Config{
		BaseURL:        g.CalendarAPIBaseURL,
		Timeout:        clientTimeout,
		MaxRetries:     maxRetries,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
	}
}

// SetupGoogle registers the Google Calendar provider and the Meet provider
// that books conferences through it. Both share one client and validator.
func SetupGoogle(registry *platform.Registry, config GoogleConfig) {
	if !config.IsConfigured() {
		slog.Warn("Google integration not configured - missing required environment variables",
			"has_client_id", config.ClientID != "",
			"has_client_secret", config.ClientSecret != "")
		return
	}

	client := api.NewClient(config.ToAPIConfig())
	validator := oauth.NewGoogleValidator(config.ClientID, config.ClientSecret, config.TokenURL)
	registry.RegisterCalendarProvider(google.NewCalendarProvider(client, validator))
	registry.RegisterMeetingProvider(google.NewMeetProvider(client, validator))

	slog.Info("Google integration configured", "client_id", config.ClientID)
}
