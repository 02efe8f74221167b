// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

func TestNatsIntegrationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsIntegrationRepository(NewMemoryKeyValue(KVStoreNameIntegrations))

	zoom := &models.Integration{ID: "i-1", UserID: "ana@x.com", AppKind: models.AppKindZoomMeeting, AccessToken: "z", IsConnected: true}
	outlook := &models.Integration{ID: "i-2", UserID: "ana@x.com", AppKind: models.AppKindOutlookCalendar, AccessToken: "o", IsConnected: true}
	other := &models.Integration{ID: "i-3", UserID: "bob@x.com", AppKind: models.AppKindZoomMeeting, AccessToken: "b", IsConnected: true}

	for _, i := range []*models.Integration{zoom, outlook, other} {
		require.NoError(t, repo.CreateIntegration(ctx, i))
	}

	t.Run("duplicate connect is a conflict", func(t *testing.T) {
		dup := *zoom
		dup.ID = "i-9"
		err := repo.CreateIntegration(ctx, &dup)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})

	t.Run("get by user and app kind", func(t *testing.T) {
		got, err := repo.GetIntegration(ctx, "ana@x.com", models.AppKindOutlookCalendar)
		require.NoError(t, err)
		assert.Equal(t, "i-2", got.ID)

		_, err = repo.GetIntegration(ctx, "ana@x.com", models.AppKindMicrosoftTeams)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("update rewrites tokens", func(t *testing.T) {
		updated := *zoom
		updated.AccessToken = "z2"
		require.NoError(t, repo.UpdateIntegration(ctx, &updated))

		got, err := repo.GetIntegration(ctx, "ana@x.com", models.AppKindZoomMeeting)
		require.NoError(t, err)
		assert.Equal(t, "z2", got.AccessToken)
	})

	t.Run("list by user", func(t *testing.T) {
		list, err := repo.ListIntegrations(ctx, "ana@x.com")
		require.NoError(t, err)
		assert.Len(t, list, 2)

		all, err := repo.ListAllIntegrations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestNatsEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsEventRepository(NewMemoryKeyValue(KVStoreNameEvents))

	public := &models.Event{ID: "evt-1", OwnerUserID: "owner-1", Title: "Intro", LocationType: models.LocationTypeOutlookWithZoom}
	private := &models.Event{ID: "evt-2", OwnerUserID: "owner-1", Title: "Internal", IsPrivate: true}
	require.NoError(t, repo.UpsertEvent(ctx, public))
	require.NoError(t, repo.UpsertEvent(ctx, private))

	got, err := repo.GetPublicEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeOutlookWithZoom, got.LocationType)

	_, err = repo.GetPublicEvent(ctx, "evt-2")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	got, err = repo.GetEvent(ctx, "evt-2")
	require.NoError(t, err)
	assert.True(t, got.IsPrivate)

	public.Title = "Intro call"
	require.NoError(t, repo.UpsertEvent(ctx, public))
	got, err = repo.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Intro call", got.Title)
}
