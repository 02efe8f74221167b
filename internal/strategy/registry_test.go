// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

func TestDefaultRegistryResolve(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		locationType models.LocationType
		combination  models.MeetingCombination
		implemented  bool
	}{
		{models.LocationTypeGoogleMeetAndCalendar, models.CombinationGoogleMeetGoogleCalendar, true},
		{models.LocationTypeZoomMeeting, models.CombinationZoomGoogleCalendar, true},
		{models.LocationTypeOutlookWithZoom, models.CombinationZoomOutlookCalendar, true},
		{models.LocationTypeOutlookWithTeams, models.CombinationTeamsOutlookCalendar, false},
		{models.LocationTypeGoogleWithTeams, models.CombinationTeamsGoogleCalendar, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.locationType), func(t *testing.T) {
			cfg, ok := r.Resolve(tt.locationType)
			require.True(t, ok)
			assert.Equal(t, tt.combination, cfg.Combination)
			assert.Equal(t, tt.implemented, cfg.Implemented)
			assert.NotEmpty(t, cfg.RequiredIntegrations)
		})
	}

	_, ok := r.Resolve("CARRIER_PIGEON")
	assert.False(t, ok)
}

func TestDefaultRegistryStrategyNames(t *testing.T) {
	r := DefaultRegistry()

	cfg, _ := r.Resolve(models.LocationTypeOutlookWithZoom)
	assert.Equal(t, "zoom+outlook_calendar", cfg.StrategyName())

	cfg, _ = r.Resolve(models.LocationTypeGoogleMeetAndCalendar)
	assert.Equal(t, "google_meet+google_calendar", cfg.StrategyName())
}

func TestDefaultRegistryOrder(t *testing.T) {
	r := DefaultRegistry()

	assert.Len(t, r.LocationTypes(), 5)
	assert.Equal(t, models.LocationTypeGoogleMeetAndCalendar, r.LocationTypes()[0])
	assert.Len(t, r.Combinations(), 5)
}

func TestNewRegistryRejectsBadTables(t *testing.T) {
	zoomGoogle := models.CombinationConfig{
		Combination:      models.CombinationZoomGoogleCalendar,
		MeetingProvider:  models.ProviderZoom,
		CalendarProvider: models.ProviderGoogleCalendar,
	}

	tests := []struct {
		name     string
		mappings []LocationMapping
		configs  []models.CombinationConfig
		wantErr  string
	}{
		{
			name:    "combination configured twice",
			configs: []models.CombinationConfig{zoomGoogle, zoomGoogle},
			wantErr: "configured twice",
		},
		{
			name: "combination without a provider",
			configs: []models.CombinationConfig{{
				Combination:     models.CombinationZoomGoogleCalendar,
				MeetingProvider: models.ProviderZoom,
			}},
			wantErr: "missing a provider",
		},
		{
			name: "location type mapped twice",
			mappings: []LocationMapping{
				{models.LocationTypeZoomMeeting, models.CombinationZoomGoogleCalendar},
				{models.LocationTypeZoomMeeting, models.CombinationZoomGoogleCalendar},
			},
			configs: []models.CombinationConfig{zoomGoogle},
			wantErr: "mapped twice",
		},
		{
			name: "mapping to unconfigured combination",
			mappings: []LocationMapping{
				{models.LocationTypeOutlookWithZoom, models.CombinationZoomOutlookCalendar},
			},
			configs: []models.CombinationConfig{zoomGoogle},
			wantErr: "unconfigured combination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.mappings, tt.configs)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
