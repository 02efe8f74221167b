// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package oauth validates provider access tokens and exchanges refresh
// tokens for new ones.
package oauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/utils"
)

// Token endpoints
const (
	ZoomTokenURL   = "https://zoom.us/oauth/token"
	GoogleTokenURL = "https://oauth2.googleapis.com/token"
)

// ErrNoRefreshToken is returned when an expired token cannot be renewed.
var ErrNoRefreshToken = errors.New("token expired and no refresh token is stored")

// Config describes one provider's OAuth client.
type Config struct {
	// Provider names the vendor in logs and errors.
	Provider     string
	ClientID     string
	ClientSecret string
	TokenURL     string
	AuthStyle    oauth2.AuthStyle
	// Margin refreshes tokens this long before their recorded expiry.
	Margin time.Duration
	// Optional: HTTP client for the token endpoint
	HTTPClient *http.Client
	// Optional: clock override for tests
	Now func() time.Time
}

// Validator is the token lifecycle helper for one provider.
type Validator struct {
	provider   string
	oauth      *oauth2.Config
	margin     time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// NewValidator creates a validator for the given provider configuration.
func NewValidator(cfg Config) *Validator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Validator{
		provider: cfg.Provider,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: cfg.AuthStyle,
			},
		},
		margin:     cfg.Margin,
		httpClient: cfg.HTTPClient,
		now:        cfg.Now,
	}
}

// NewZoomValidator uses HTTP basic client authentication, which Zoom requires.
func NewZoomValidator(clientID, clientSecret, tokenURL string) *Validator {
	if tokenURL == "" {
		tokenURL = ZoomTokenURL
	}
	return NewValidator(Config{
		Provider:     models.ProviderZoom,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		Margin:       constants.ZoomTokenExpiryMargin,
	})
}

// NewGoogleValidator creates the validator shared by Google Calendar and Meet.
func NewGoogleValidator(clientID, clientSecret, tokenURL string) *Validator {
	if tokenURL == "" {
		tokenURL = GoogleTokenURL
	}
	return NewValidator(Config{
		Provider:     "google",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
		Margin:       constants.GoogleTokenExpiryMargin,
	})
}

// NewMicrosoftValidator targets the identity platform v2 endpoint of the
// tenant, "common" when empty.
func NewMicrosoftValidator(clientID, clientSecret, tenant, tokenURL string) *Validator {
	if tenant == "" {
		tenant = "common"
	}
	if tokenURL == "" {
		tokenURL = "https://login.microsoftonline.com/" + tenant + "/oauth2/v2.0/token"
	}
	return NewValidator(Config{
		Provider:     "microsoft",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
		Margin:       constants.MicrosoftTokenExpiryMargin,
	})
}

// Provider returns the vendor this validator refreshes tokens for.
func (v *Validator) Provider() string {
	return v.provider
}

// NeedsRefresh reports whether the token is expired or inside the margin.
func (v *Validator) NeedsRefresh(token models.TokenConfig) bool {
	return token.NeedsRefresh(v.now(), v.margin)
}

// Validate returns the token unchanged while it is valid, otherwise
// performs the refresh-token grant.
func (v *Validator) Validate(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	if !v.NeedsRefresh(token) {
		return token, nil
	}

	if token.RefreshToken == "" {
		slog.WarnContext(ctx, "token expired without refresh token",
			logging.ProviderKey, v.provider,
		)
		return token, domain.NewTokenRefreshError(v.provider, ErrNoRefreshToken).
			WithDetail(domain.DetailReason, domain.ReasonGrantRejected)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	// An empty access token forces the source to refresh immediately.
	source := v.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})

	refreshed, err := source.Token()
	if err != nil {
		slog.ErrorContext(ctx, "token refresh failed",
			logging.ProviderKey, v.provider,
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		refreshErr := domain.NewTokenRefreshError(v.provider, err)
		if grantRejected(err) {
			refreshErr = refreshErr.WithDetail(domain.DetailReason, domain.ReasonGrantRejected)
		}
		return token, refreshErr
	}

	slog.DebugContext(ctx, "token refreshed",
		logging.ProviderKey, v.provider,
		"expiry", refreshed.Expiry,
	)

	result := models.TokenConfig{
		AccessToken:       refreshed.AccessToken,
		RefreshToken:      refreshed.RefreshToken,
		ExpiryEpochMillis: utils.EpochMillisPtr(refreshed.Expiry),
	}
	if result.ExpiryEpochMillis == nil {
		// No expires_in: the issuer does not expire this token.
		result.ExpiryEpochMillis = utils.Int64Ptr(models.NeverExpiresEpochMillis)
	}
	if result.RefreshToken == "" {
		result.RefreshToken = token.RefreshToken
	}
	return result, nil
}

// grantRejected reports whether the token endpoint answered with a
// definitive refusal of the refresh grant. Transport failures and 5xx
// responses are transient.
func grantRejected(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	switch retrieveErr.ErrorCode {
	case "invalid_grant", "invalid_client", "unauthorized_client":
		return true
	}
	if retrieveErr.Response == nil {
		return false
	}
	return retrieveErr.Response.StatusCode == http.StatusBadRequest ||
		retrieveErr.Response.StatusCode == http.StatusUnauthorized
}
