// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// staleValidator treats every token except fresh as needing a refresh.
func staleValidator(fresh string) *mocks.MockMeetingProvider {
	v := &mocks.MockMeetingProvider{}
	v.On("TokenNeedsRefresh", mock.MatchedBy(func(t models.TokenConfig) bool { return t.AccessToken == fresh })).Return(false).Maybe()
	v.On("TokenNeedsRefresh", mock.Anything).Return(true).Maybe()
	return v
}

func TestTokenResolverIntegration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.deps.Tokens.Integration(ctx, ownerID, models.AppKindZoomMeeting)
	assert.Equal(t, domain.ErrorTypeIntegrationMissing, domain.GetErrorType(err))
	assert.Equal(t, string(models.AppKindZoomMeeting), domain.GetErrorDetails(err)[domain.DetailIntegration])

	integration := f.connect(t, models.AppKindZoomMeeting, "")
	got, err := f.deps.Tokens.Integration(ctx, ownerID, models.AppKindZoomMeeting)
	require.NoError(t, err)
	assert.Equal(t, integration.ID, got.ID)

	got.IsConnected = false
	require.NoError(t, f.repos.Integrations.UpdateIntegration(ctx, got))
	_, err = f.deps.Tokens.Integration(ctx, ownerID, models.AppKindZoomMeeting)
	assert.Equal(t, domain.ErrorTypeIntegrationMissing, domain.GetErrorType(err))
}

func TestValidTokenWithoutRefresh(t *testing.T) {
	f := newFixture(t)
	integration := f.connect(t, models.AppKindZoomMeeting, "")
	provider := newMeetingProvider(models.ProviderZoom)

	token, err := f.deps.Tokens.ValidToken(context.Background(), integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "access-ZOOM_MEETING", token.AccessToken)
	provider.AssertNotCalled(t, "ValidateAndRefreshToken", mock.Anything, mock.Anything)
}

func TestValidTokenRefreshPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	integration := f.connect(t, models.AppKindOutlookCalendar, "")
	expiry := fixedNow.Add(time.Hour).UnixMilli()

	provider := staleValidator("new-access")
	provider.On("ValidateAndRefreshToken", mock.Anything, mock.Anything).
		Return(models.TokenConfig{AccessToken: "new-access", ExpiryEpochMillis: &expiry}, nil).Once()

	token, err := f.deps.Tokens.ValidToken(ctx, integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
	assert.Equal(t, "refresh-OUTLOOK_CALENDAR", token.RefreshToken, "refresh token kept when none is returned")

	stored, err := f.repos.Integrations.GetIntegration(ctx, ownerID, models.AppKindOutlookCalendar)
	require.NoError(t, err)
	assert.Equal(t, "new-access", stored.AccessToken)
	require.NotNil(t, stored.ExpiryEpochMillis)
	assert.Equal(t, expiry, *stored.ExpiryEpochMillis)
	provider.AssertExpectations(t)
}

func TestValidTokenRefreshFailure(t *testing.T) {
	f := newFixture(t)
	integration := f.connect(t, models.AppKindZoomMeeting, "")

	provider := staleValidator("")
	provider.On("ValidateAndRefreshToken", mock.Anything, mock.Anything).
		Return(models.TokenConfig{}, domain.NewTokenRefreshError("zoom", errors.New("invalid_grant")))

	_, err := f.deps.Tokens.ValidToken(context.Background(), integration, provider)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeTokenRefresh, domain.GetErrorType(err))
}

func TestValidTokenLeaseHolderReusesFreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	integration := f.connect(t, models.AppKindZoomMeeting, "")

	// Another replica refreshed between our read and the lease.
	stored := *integration
	stored.AccessToken = "fresh"
	require.NoError(t, f.repos.Integrations.UpdateIntegration(ctx, &stored))

	released := false
	locker := &mocks.MockRefreshLocker{}
	locker.On("Acquire", mock.Anything, "integration:"+integration.ID, defaultRefreshLease).
		Return(func(context.Context) error { released = true; return nil }, true, nil)

	resolver := NewTokenResolver(f.repos.Integrations, WithRefreshLocker(locker))
	provider := staleValidator("fresh")

	token, err := resolver.ValidToken(ctx, integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "fresh", integration.AccessToken)
	assert.True(t, released)
	provider.AssertNotCalled(t, "ValidateAndRefreshToken", mock.Anything, mock.Anything)
}

func TestValidTokenWaiterPicksUpRefreshedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	integration := f.connect(t, models.AppKindZoomMeeting, "")

	locker := &mocks.MockRefreshLocker{}
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil)

	resolver := NewTokenResolver(f.repos.Integrations, WithRefreshLocker(locker), WithLeaseWait(time.Millisecond, 50))
	provider := staleValidator("fresh")

	stored := *integration
	stored.AccessToken = "fresh"
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = f.repos.Integrations.UpdateIntegration(context.Background(), &stored)
	}()

	token, err := resolver.ValidToken(ctx, integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	provider.AssertNotCalled(t, "ValidateAndRefreshToken", mock.Anything, mock.Anything)
}

func TestValidTokenWaiterRefreshesAfterTimeout(t *testing.T) {
	f := newFixture(t)
	integration := f.connect(t, models.AppKindZoomMeeting, "")

	locker := &mocks.MockRefreshLocker{}
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil)

	resolver := NewTokenResolver(f.repos.Integrations, WithRefreshLocker(locker), WithLeaseWait(time.Millisecond, 2))
	provider := staleValidator("new-access")
	provider.On("ValidateAndRefreshToken", mock.Anything, mock.Anything).
		Return(models.TokenConfig{AccessToken: "new-access"}, nil).Once()

	token, err := resolver.ValidToken(context.Background(), integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
	provider.AssertExpectations(t)
}

func TestValidTokenLockErrorStillRefreshes(t *testing.T) {
	f := newFixture(t)
	integration := f.connect(t, models.AppKindZoomMeeting, "")

	locker := &mocks.MockRefreshLocker{}
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, false, domain.NewUnavailableError("redis down"))

	resolver := NewTokenResolver(f.repos.Integrations, WithRefreshLocker(locker))
	provider := staleValidator("new-access")
	provider.On("ValidateAndRefreshToken", mock.Anything, mock.Anything).
		Return(models.TokenConfig{AccessToken: "new-access"}, nil).Once()

	token, err := resolver.ValidToken(context.Background(), integration, provider)
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
}
