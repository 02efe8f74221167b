// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

const (
	defaultRefreshLease = 15 * time.Second
	defaultLeaseWait    = 250 * time.Millisecond
	defaultLeaseRetries = 8
)

// TokenResolver loads a user's integrations and hands out access tokens
// that are valid for the next provider call, persisting refreshed tokens.
type TokenResolver struct {
	integrations domain.IntegrationRepository
	// locker is nil when refreshes are not coalesced.
	locker       domain.RefreshLocker
	leaseTTL     time.Duration
	leaseWait    time.Duration
	leaseRetries int
	now          func() time.Time
}

// TokenResolverOption configures a TokenResolver.
type TokenResolverOption func(*TokenResolver)

// WithRefreshLocker coalesces concurrent refreshes of one integration.
func WithRefreshLocker(locker domain.RefreshLocker) TokenResolverOption {
	return func(r *TokenResolver) {
		r.locker = locker
	}
}

// WithLeaseWait sets how long and how often a waiter polls for a token
// refreshed by the lease holder.
func WithLeaseWait(wait time.Duration, retries int) TokenResolverOption {
	return func(r *TokenResolver) {
		r.leaseWait = wait
		r.leaseRetries = retries
	}
}

// NewTokenResolver creates a TokenResolver.
func NewTokenResolver(integrations domain.IntegrationRepository, opts ...TokenResolverOption) *TokenResolver {
	r := &TokenResolver{
		integrations: integrations,
		leaseTTL:     defaultRefreshLease,
		leaseWait:    defaultLeaseWait,
		leaseRetries: defaultLeaseRetries,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Integration returns the user's connected integration for appKind. A
// missing or disconnected integration is IntegrationMissing.
func (r *TokenResolver) Integration(ctx context.Context, userID string, appKind models.AppKind) (*models.Integration, error) {
	integration, err := r.integrations.GetIntegration(ctx, userID, appKind)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, domain.NewIntegrationMissingError(string(appKind))
		}
		return nil, err
	}
	if !integration.IsConnected {
		return nil, domain.NewIntegrationMissingError(string(appKind))
	}
	return integration, nil
}

// ValidToken returns a usable token for integration, refreshing it through
// validator when it is expired or about to expire. Refresh failures are
// returned as TokenRefresh errors.
func (r *TokenResolver) ValidToken(ctx context.Context, integration *models.Integration, validator domain.TokenValidator) (models.TokenConfig, error) {
	token := integration.TokenConfig()
	if !validator.TokenNeedsRefresh(token) {
		return token, nil
	}

	ctx = logging.AppendCtx(ctx, slog.String("integration_id", integration.ID), slog.String("app_kind", string(integration.AppKind)))

	if r.locker == nil {
		return r.refresh(ctx, integration, validator)
	}

	release, acquired, err := r.locker.Acquire(ctx, "integration:"+integration.ID, r.leaseTTL)
	if err != nil {
		// The lease only saves a duplicate refresh, so carry on without it.
		slog.WarnContext(ctx, "refresh lease unavailable, refreshing without it", logging.ErrKey, err)
		return r.refresh(ctx, integration, validator)
	}
	if acquired {
		defer func() {
			_ = release(context.WithoutCancel(ctx))
		}()
		// Another holder may have refreshed between our read and the lease.
		if current, ok := r.reread(ctx, integration, validator); ok {
			return current, nil
		}
		return r.refresh(ctx, integration, validator)
	}

	for i := 0; i < r.leaseRetries; i++ {
		select {
		case <-ctx.Done():
			return models.TokenConfig{}, ctx.Err()
		case <-time.After(r.leaseWait):
		}
		if current, ok := r.reread(ctx, integration, validator); ok {
			slog.DebugContext(ctx, "reusing token refreshed by lease holder")
			return current, nil
		}
	}

	slog.WarnContext(ctx, "lease holder did not refresh in time, refreshing anyway")
	return r.refresh(ctx, integration, validator)
}

// reread loads the stored integration and reports whether its token no
// longer needs a refresh. integration is updated in place when it does not.
func (r *TokenResolver) reread(ctx context.Context, integration *models.Integration, validator domain.TokenValidator) (models.TokenConfig, bool) {
	stored, err := r.integrations.GetIntegration(ctx, integration.UserID, integration.AppKind)
	if err != nil {
		slog.WarnContext(ctx, "failed to re-read integration", logging.ErrKey, err)
		return models.TokenConfig{}, false
	}
	token := stored.TokenConfig()
	if validator.TokenNeedsRefresh(token) {
		return models.TokenConfig{}, false
	}
	*integration = *stored
	return token, true
}

func (r *TokenResolver) refresh(ctx context.Context, integration *models.Integration, validator domain.TokenValidator) (models.TokenConfig, error) {
	refreshed, err := validator.ValidateAndRefreshToken(ctx, integration.TokenConfig())
	if err != nil {
		slog.ErrorContext(ctx, "token refresh failed, integration needs reauthorization",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return models.TokenConfig{}, err
	}

	integration.ApplyToken(refreshed, r.now().UTC())
	if err := r.integrations.UpdateIntegration(ctx, integration); err != nil {
		// The token is valid for this request even if it could not be stored.
		slog.WarnContext(ctx, "failed to persist refreshed token", logging.ErrKey, err)
	} else {
		slog.DebugContext(ctx, "persisted refreshed token")
	}
	return integration.TokenConfig(), nil
}
