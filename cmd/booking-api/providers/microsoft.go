// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package providers

import (
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/microsoft"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/microsoft/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/platform"
)

// MicrosoftConfig holds Microsoft Graph configuration
type MicrosoftConfig struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	GraphBaseURL string
	// TokenURL is empty to derive the endpoint from Tenant.
	TokenURL string
}

// NewMicrosoftConfigFromEnv creates a MicrosoftConfig from environment variables
func NewMicrosoftConfigFromEnv() MicrosoftConfig {
	return MicrosoftConfig{
		ClientID:     os.Getenv("MICROSOFT_CLIENT_ID"),
		ClientSecret: os.Getenv("MICROSOFT_CLIENT_SECRET"),
		Tenant:       envOrDefault("MICROSOFT_TENANT", "common"),
		GraphBaseURL: os.Getenv("MICROSOFT_GRAPH_BASE_URL"),
		TokenURL:     os.Getenv("MICROSOFT_TOKEN_URL"),
	}
}

// IsConfigured returns true if all required Microsoft credentials are provided
func (m MicrosoftConfig) IsConfigured() bool {
	return m.ClientID != "" && m.ClientSecret != ""
}

// ToAPIConfig converts the MicrosoftConfig to an api.Config
func (m MicrosoftConfig) ToAPIConfig() api.Config {
	return api.Config{
		BaseURL:        m.GraphBaseURL,
		Timeout:        clientTimeout,
		MaxRetries:     maxRetries,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
	}
}

// SetupMicrosoft registers the Outlook calendar provider. Teams is not
// registered; its combinations are known but not built.
func SetupMicrosoft(registry *platform.Registry, config MicrosoftConfig) {
	if !config.IsConfigured() {
		slog.Warn("Microsoft integration not configured - missing required environment variables",
			"has_client_id", config.ClientID != "",
			"has_client_secret", config.ClientSecret != "")
		return
	}

	validator := oauth.NewMicrosoftValidator(config.ClientID, config.ClientSecret, config.Tenant, config.TokenURL)
	registry.RegisterCalendarProvider(microsoft.NewOutlookCalendarProvider(api.NewClient(config.ToAPIConfig()), validator))

	slog.Info("Microsoft integration configured", "client_id", config.ClientID, "tenant", config.Tenant)
}
