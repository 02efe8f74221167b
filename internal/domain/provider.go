// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// TokenValidator checks an access token and refreshes it when expired.
type TokenValidator interface {
	// TokenNeedsRefresh reports whether ValidateAndRefreshToken would call
	// the provider's token endpoint.
	TokenNeedsRefresh(token models.TokenConfig) bool

	// ValidateAndRefreshToken returns a usable token. Refresh failures are
	// TokenRefresh errors.
	ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error)
}

// MeetingProvider creates and deletes video-conferencing sessions.
type MeetingProvider interface {
	TokenValidator

	Name() string

	CreateMeeting(ctx context.Context, config models.MeetingConfig, token models.TokenConfig) (*models.MeetingInfo, error)

	// DeleteMeeting treats a session that no longer exists as deleted.
	DeleteMeeting(ctx context.Context, meetingID string, token models.TokenConfig, ownerUserID string) error

	// CanCreateMeetings is a cheap probe used by integration health checks.
	CanCreateMeetings(ctx context.Context, userID string, token models.TokenConfig) (bool, error)
}

// CalendarProvider creates and deletes calendar events.
type CalendarProvider interface {
	TokenValidator

	Name() string

	CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, token models.TokenConfig) (string, error)

	// DeleteEvent treats an event that no longer exists as deleted.
	DeleteEvent(ctx context.Context, calendarID, eventID string, token models.TokenConfig) error

	// CanHandleCalendar reports whether the id addresses a specific calendar
	// rather than falling back to the account default.
	CanHandleCalendar(calendarID string) bool

	GetCalendarInfo(ctx context.Context, calendarID string, token models.TokenConfig) (*models.CalendarInfo, error)
}

// ProviderRegistry resolves configured providers by name.
type ProviderRegistry interface {
	MeetingProvider(name string) (MeetingProvider, error)
	CalendarProvider(name string) (CalendarProvider, error)
}
