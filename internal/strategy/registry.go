// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package strategy holds the combination registry, the strategy factory and
// the strategies that drive a meeting provider and a calendar provider
// through the booking lifecycle.
package strategy

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// LocationMapping binds a location type to its combination.
type LocationMapping struct {
	LocationType models.LocationType
	Combination  models.MeetingCombination
}

// Registry is the read-only table of location types and combinations. It is
// built once at startup and shared by every request.
type Registry struct {
	order         []models.LocationType
	locationTypes map[models.LocationType]models.MeetingCombination
	combinations  map[models.MeetingCombination]models.CombinationConfig
}

// NewRegistry validates the mappings and configs. Every location type must
// map to exactly one combination and every mapped combination must have
// exactly one config.
func NewRegistry(mappings []LocationMapping, configs []models.CombinationConfig) (*Registry, error) {
	r := &Registry{
		order:         make([]models.LocationType, 0, len(mappings)),
		locationTypes: make(map[models.LocationType]models.MeetingCombination, len(mappings)),
		combinations:  make(map[models.MeetingCombination]models.CombinationConfig, len(configs)),
	}

	for _, cfg := range configs {
		if _, exists := r.combinations[cfg.Combination]; exists {
			return nil, fmt.Errorf("combination %s configured twice", cfg.Combination)
		}
		if cfg.MeetingProvider == "" || cfg.CalendarProvider == "" {
			return nil, fmt.Errorf("combination %s is missing a provider", cfg.Combination)
		}
		r.combinations[cfg.Combination] = cfg
	}

	for _, m := range mappings {
		if _, exists := r.locationTypes[m.LocationType]; exists {
			return nil, fmt.Errorf("location type %s mapped twice", m.LocationType)
		}
		if _, ok := r.combinations[m.Combination]; !ok {
			return nil, fmt.Errorf("location type %s maps to unconfigured combination %s", m.LocationType, m.Combination)
		}
		r.locationTypes[m.LocationType] = m.Combination
		r.order = append(r.order, m.LocationType)
	}

	return r, nil
}

// DefaultMappings returns the location types the service offers.
func DefaultMappings() []LocationMapping {
	return []LocationMapping{
		{models.LocationTypeGoogleMeetAndCalendar, models.CombinationGoogleMeetGoogleCalendar},
		{models.LocationTypeZoomMeeting, models.CombinationZoomGoogleCalendar},
		{models.LocationTypeOutlookWithZoom, models.CombinationZoomOutlookCalendar},
		{models.LocationTypeOutlookWithTeams, models.CombinationTeamsOutlookCalendar},
		{models.LocationTypeGoogleWithTeams, models.CombinationTeamsGoogleCalendar},
	}
}

// DefaultCombinations returns the provider pairs the service knows about.
// Teams pairs are registered so clients can tell them apart from invalid
// input, but they are not implemented.
func DefaultCombinations() []models.CombinationConfig {
	settings := models.DefaultMeetingSettings()
	return []models.CombinationConfig{
		{
			Combination:          models.CombinationGoogleMeetGoogleCalendar,
			MeetingProvider:      models.ProviderGoogleMeet,
			CalendarProvider:     models.ProviderGoogleCalendar,
			RequiredIntegrations: []models.AppKind{models.AppKindGoogleMeetAndCalendar},
			Implemented:          true,
			DefaultSettings:      settings,
		},
		{
			Combination:          models.CombinationZoomGoogleCalendar,
			MeetingProvider:      models.ProviderZoom,
			CalendarProvider:     models.ProviderGoogleCalendar,
			RequiredIntegrations: []models.AppKind{models.AppKindZoomMeeting, models.AppKindGoogleMeetAndCalendar},
			Implemented:          true,
			DefaultSettings:      settings,
		},
		{
			Combination:          models.CombinationZoomOutlookCalendar,
			MeetingProvider:      models.ProviderZoom,
			CalendarProvider:     models.ProviderOutlookCalendar,
			RequiredIntegrations: []models.AppKind{models.AppKindZoomMeeting, models.AppKindOutlookCalendar},
			Implemented:          true,
			DefaultSettings:      settings,
		},
		{
			Combination:          models.CombinationTeamsOutlookCalendar,
			MeetingProvider:      models.ProviderMicrosoftTeams,
			CalendarProvider:     models.ProviderOutlookCalendar,
			RequiredIntegrations: []models.AppKind{models.AppKindMicrosoftTeams, models.AppKindOutlookCalendar},
			DefaultSettings:      settings,
		},
		{
			Combination:          models.CombinationTeamsGoogleCalendar,
			MeetingProvider:      models.ProviderMicrosoftTeams,
			CalendarProvider:     models.ProviderGoogleCalendar,
			RequiredIntegrations: []models.AppKind{models.AppKindMicrosoftTeams, models.AppKindGoogleMeetAndCalendar},
			DefaultSettings:      settings,
		},
	}
}

// DefaultRegistry builds the registry from the default tables.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultMappings(), DefaultCombinations())
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the combination config for a location type.
func (r *Registry) Resolve(locationType models.LocationType) (models.CombinationConfig, bool) {
	combination, ok := r.locationTypes[locationType]
	if !ok {
		return models.CombinationConfig{}, false
	}
	cfg, ok := r.combinations[combination]
	return cfg, ok
}

// LocationTypes returns every mapped location type in registration order.
func (r *Registry) LocationTypes() []models.LocationType {
	out := make([]models.LocationType, len(r.order))
	copy(out, r.order)
	return out
}

// Combinations returns every configured combination in location type order.
func (r *Registry) Combinations() []models.CombinationConfig {
	seen := make(map[models.MeetingCombination]bool, len(r.combinations))
	out := make([]models.CombinationConfig, 0, len(r.combinations))
	for _, lt := range r.order {
		combination := r.locationTypes[lt]
		if seen[combination] {
			continue
		}
		seen[combination] = true
		out = append(out, r.combinations[combination])
	}
	return out
}
