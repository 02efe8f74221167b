// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package platform holds the registry of configured meeting and calendar
// providers.
package platform

import (
	"sort"
	"sync"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
)

// Registry implements the ProviderRegistry interface
type Registry struct {
	meetingProviders  map[string]domain.MeetingProvider
	calendarProviders map[string]domain.CalendarProvider
	mu                sync.RWMutex
}

var _ domain.ProviderRegistry = (*Registry)(nil)

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		meetingProviders:  make(map[string]domain.MeetingProvider),
		calendarProviders: make(map[string]domain.CalendarProvider),
	}
}

// MeetingProvider returns the meeting provider registered under name, or an
// Unavailable error when the provider is not configured
func (r *Registry) MeetingProvider(name string) (domain.MeetingProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.meetingProviders[name]
	if !exists {
		return nil, domain.NewUnavailableError("meeting provider not configured: " + name).
			WithDetail(domain.DetailProvider, name)
	}
	return provider, nil
}

// CalendarProvider returns the calendar provider registered under name, or
// an Unavailable error when the provider is not configured
func (r *Registry) CalendarProvider(name string) (domain.CalendarProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.calendarProviders[name]
	if !exists {
		return nil, domain.NewUnavailableError("calendar provider not configured: " + name).
			WithDetail(domain.DetailProvider, name)
	}
	return provider, nil
}

// RegisterMeetingProvider registers a meeting provider under its name
func (r *Registry) RegisterMeetingProvider(provider domain.MeetingProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.meetingProviders[provider.Name()] = provider
}

// RegisterCalendarProvider registers a calendar provider under its name
func (r *Registry) RegisterCalendarProvider(provider domain.CalendarProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calendarProviders[provider.Name()] = provider
}

// Names lists the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for name := range r.meetingProviders {
		seen[name] = true
	}
	for name := range r.calendarProviders {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
