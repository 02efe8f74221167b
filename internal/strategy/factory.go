// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// combinedCombinations are served by one provider acting as both the
// meeting and the calendar provider.
var combinedCombinations = map[models.MeetingCombination]bool{
	models.CombinationGoogleMeetGoogleCalendar: true,
}

// Factory dispatches location types to strategies built once at startup.
type Factory struct {
	registry    *Registry
	strategies  map[models.MeetingCombination]domain.MeetingStrategy
	unavailable map[models.MeetingCombination]error
}

var _ domain.StrategyFactory = (*Factory)(nil)

// NewFactory builds a strategy for every implemented combination. A
// combination whose providers are not configured is kept as unavailable
// and reported as such when requested.
func NewFactory(ctx context.Context, registry *Registry, providers domain.ProviderRegistry, deps Dependencies) *Factory {
	f := &Factory{
		registry:    registry,
		strategies:  make(map[models.MeetingCombination]domain.MeetingStrategy),
		unavailable: make(map[models.MeetingCombination]error),
	}

	for _, cfg := range registry.Combinations() {
		if !cfg.Implemented {
			continue
		}
		strategy, err := buildStrategy(cfg, providers, deps)
		if err != nil {
			slog.WarnContext(ctx, "meeting combination unavailable",
				"combination", cfg.Combination,
				logging.ErrKey, err,
			)
			f.unavailable[cfg.Combination] = err
			continue
		}
		f.strategies[cfg.Combination] = strategy
	}
	return f
}

func buildStrategy(cfg models.CombinationConfig, providers domain.ProviderRegistry, deps Dependencies) (domain.MeetingStrategy, error) {
	meetingProvider, err := providers.MeetingProvider(cfg.MeetingProvider)
	if err != nil {
		return nil, err
	}

	if combinedCombinations[cfg.Combination] {
		combined, ok := meetingProvider.(CombinedProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s cannot create calendar events", cfg.MeetingProvider)
		}
		return NewGoogleMeetStrategy(cfg, combined, deps)
	}

	calendarProvider, err := providers.CalendarProvider(cfg.CalendarProvider)
	if err != nil {
		return nil, err
	}
	return NewPairedStrategy(cfg, meetingProvider, calendarProvider, deps)
}

// CreateStrategy returns the strategy for locationType. Unknown location
// types are UnsupportedLocationType, registered but unbuilt combinations
// are NotImplemented, and combinations missing a provider are Unavailable.
func (f *Factory) CreateStrategy(locationType models.LocationType) (domain.MeetingStrategy, error) {
	cfg, ok := f.registry.Resolve(locationType)
	if !ok {
		return nil, domain.NewUnsupportedLocationTypeError(string(locationType))
	}
	if !cfg.Implemented {
		return nil, domain.NewNotImplementedError(string(locationType), string(cfg.Combination))
	}
	if err, unavailable := f.unavailable[cfg.Combination]; unavailable {
		return nil, domain.NewUnavailableError("meeting combination "+string(cfg.Combination)+" is not configured", err).
			WithDetail(domain.DetailLocationType, string(locationType)).
			WithDetail(domain.DetailCombination, string(cfg.Combination))
	}
	strategy, ok := f.strategies[cfg.Combination]
	if !ok {
		return nil, domain.NewInternalError("no strategy for combination " + string(cfg.Combination))
	}
	return strategy, nil
}

// IsCombinationSupported reports whether locationType maps to an
// implemented combination.
func (f *Factory) IsCombinationSupported(locationType models.LocationType) bool {
	cfg, ok := f.registry.Resolve(locationType)
	return ok && cfg.Implemented
}

// SupportedLocationTypes lists the location types with an implemented combination.
func (f *Factory) SupportedLocationTypes() []models.LocationType {
	var out []models.LocationType
	for _, lt := range f.registry.LocationTypes() {
		if f.IsCombinationSupported(lt) {
			out = append(out, lt)
		}
	}
	return out
}

// DescribeLocationTypes reports every registered location type, including
// whether its providers are configured in this deployment.
func (f *Factory) DescribeLocationTypes() []models.LocationTypeInfo {
	types := f.registry.LocationTypes()
	out := make([]models.LocationTypeInfo, 0, len(types))
	for _, lt := range types {
		cfg, _ := f.registry.Resolve(lt)
		_, built := f.strategies[cfg.Combination]
		out = append(out, models.LocationTypeInfo{
			LocationType:         lt,
			Combination:          cfg.Combination,
			MeetingProvider:      cfg.MeetingProvider,
			CalendarProvider:     cfg.CalendarProvider,
			RequiredIntegrations: cfg.RequiredIntegrations,
			Implemented:          cfg.Implemented,
			Available:            built,
		})
	}
	return out
}
