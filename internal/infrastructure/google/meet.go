// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

var errNoConference = errors.New("event created without a Meet conference")

// MeetProvider creates Google Meet sessions as calendar events with a
// generated conference. The session id is the calendar event id, so it
// serves as both the meeting and the calendar provider of its combination.
type MeetProvider struct {
	*CalendarProvider
}

var (
	_ domain.MeetingProvider  = (*MeetProvider)(nil)
	_ domain.CalendarProvider = (*MeetProvider)(nil)
)

// NewMeetProvider creates a Google Meet provider
func NewMeetProvider(client api.ClientAPI, tokens *oauth.Validator) *MeetProvider {
	return &MeetProvider{CalendarProvider: NewCalendarProvider(client, tokens)}
}

// Name returns the registry name of the provider
func (p *MeetProvider) Name() string {
	return models.ProviderGoogleMeet
}

// CreateMeeting inserts a calendar event on config.CalendarID with a Meet
// conference and returns the event as the session.
func (p *MeetProvider) CreateMeeting(ctx context.Context, config models.MeetingConfig, token models.TokenConfig) (*models.MeetingInfo, error) {
	calendarID := NormalizeCalendarID(config.CalendarID)
	ctx = logging.AppendCtx(ctx, slog.String("calendar_id", calendarID))

	event := toGoogleEvent(models.CalendarEvent{
		Title:       config.Topic,
		Description: config.Description,
		StartTime:   config.StartTime,
		EndTime:     config.EndTime,
		Timezone:    config.Timezone,
		Attendees:   config.Attendees,
	})
	event.ConferenceData = &api.ConferenceData{
		CreateRequest: &api.CreateConferenceRequest{
			RequestID:             uuid.NewString(),
			ConferenceSolutionKey: api.ConferenceSolutionKey{Type: api.ConferenceSolutionHangoutsMeet},
		},
	}

	created, err := p.client.InsertEvent(ctx, token.AccessToken, calendarID, event, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Google Meet event", logging.ErrKey, err)
		return nil, domain.NewProviderOperationError(models.ProviderGoogleMeet, "create_meeting", err)
	}

	joinURL := created.JoinURL()
	if joinURL == "" {
		slog.ErrorContext(ctx, "Google did not attach a Meet conference", "calendar_event_id", created.ID)
		if delErr := deleteEvent(ctx, p.client, models.ProviderGoogleMeet, calendarID, created.ID, token); delErr != nil {
			slog.ErrorContext(ctx, "orphaned Google Meet event needs manual cleanup",
				"calendar_event_id", created.ID,
				logging.ErrKey, delErr,
				logging.PriorityCritical(),
			)
		}
		return nil, domain.NewProviderOperationError(models.ProviderGoogleMeet, "create_meeting", errNoConference)
	}

	slog.InfoContext(ctx, "created Google Meet event", "calendar_event_id", created.ID)
	return &models.MeetingInfo{ID: created.ID, JoinURL: joinURL}, nil
}

// DeleteMeeting deletes the session's event from the primary calendar.
// Callers that know the event's calendar use DeleteEvent instead.
func (p *MeetProvider) DeleteMeeting(ctx context.Context, meetingID string, token models.TokenConfig, ownerUserID string) error {
	ctx = logging.AppendCtx(ctx, slog.String(logging.UserIDKey, ownerUserID))
	return deleteEvent(ctx, p.client, models.ProviderGoogleMeet, constants.DefaultCalendarID, meetingID, token)
}

// CanCreateMeetings checks that the primary calendar is writable.
func (p *MeetProvider) CanCreateMeetings(ctx context.Context, userID string, token models.TokenConfig) (bool, error) {
	entry, err := p.client.GetCalendar(ctx, token.AccessToken, constants.DefaultCalendarID)
	if err != nil {
		slog.WarnContext(ctx, "Google Meet capability probe failed",
			logging.UserIDKey, userID,
			logging.ErrKey, err,
		)
		return false, domain.NewProviderOperationError(models.ProviderGoogleMeet, "get_calendar", err)
	}
	return entry.AccessRole == "" || entry.AccessRole == "owner" || entry.AccessRole == "writer", nil
}
