// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/store"
)

const ownerID = "owner-1"

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repos *domain.Repositories
	deps  Dependencies
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := store.NewMemoryRepositories()
	return &fixture{
		repos: repos,
		deps: Dependencies{
			Events:   repos.Events,
			Meetings: repos.Meetings,
			Tokens:   NewTokenResolver(repos.Integrations),
			Now:      func() time.Time { return fixedNow },
		},
	}
}

func (f *fixture) connect(t *testing.T, kind models.AppKind, calendarID string) *models.Integration {
	t.Helper()
	integration := &models.Integration{
		ID:           "int-" + string(kind),
		UserID:       ownerID,
		ProviderKind: kind.ProviderKind(),
		AppKind:      kind,
		AccessToken:  "access-" + string(kind),
		RefreshToken: "refresh-" + string(kind),
		CalendarID:   calendarID,
		IsConnected:  true,
	}
	require.NoError(t, f.repos.Integrations.CreateIntegration(context.Background(), integration))
	return integration
}

func (f *fixture) event(t *testing.T, locationType models.LocationType, calendarID string) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:              "evt-1",
		OwnerUserID:     ownerID,
		Title:           "Intro call",
		Description:     "Thirty minutes to get to know each other.",
		LocationType:    locationType,
		CalendarID:      calendarID,
		DurationMinutes: 30,
	}
	require.NoError(t, f.repos.Events.UpsertEvent(context.Background(), event))
	return event
}

func (f *fixture) storeMeeting(t *testing.T, meeting *models.Meeting) uint64 {
	t.Helper()
	require.NoError(t, f.repos.Meetings.CreateMeeting(context.Background(), meeting))
	_, revision, err := f.repos.Meetings.GetMeetingWithRevision(context.Background(), meeting.ID)
	require.NoError(t, err)
	return revision
}

func bookingFor(event *models.Event) *models.BookingRequest {
	start := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	return &models.BookingRequest{
		Event:          event,
		GuestName:      "Ada Lovelace",
		GuestEmail:     "ada@example.com",
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Timezone:       "Europe/London",
		AdditionalInfo: "Agenda in the doc",
	}
}

func newMeetingProvider(name string) *mocks.MockMeetingProvider {
	m := &mocks.MockMeetingProvider{}
	m.On("Name").Return(name).Maybe()
	m.On("TokenNeedsRefresh", mock.Anything).Return(false).Maybe()
	return m
}

func newCalendarProvider(name string) *mocks.MockCalendarProvider {
	m := &mocks.MockCalendarProvider{}
	m.On("Name").Return(name).Maybe()
	m.On("TokenNeedsRefresh", mock.Anything).Return(false).Maybe()
	return m
}

func newCombinedProvider(name string) *mocks.MockCombinedProvider {
	m := &mocks.MockCombinedProvider{}
	m.On("Name").Return(name).Maybe()
	m.On("TokenNeedsRefresh", mock.Anything).Return(false).Maybe()
	return m
}

func combination(t *testing.T, c models.MeetingCombination) models.CombinationConfig {
	t.Helper()
	for _, cfg := range DefaultCombinations() {
		if cfg.Combination == c {
			return cfg
		}
	}
	t.Fatalf("combination %s not configured", c)
	return models.CombinationConfig{}
}
