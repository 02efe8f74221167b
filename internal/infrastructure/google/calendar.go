// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package google holds the Google Calendar provider and the Google Meet
// provider that creates its conferences through calendar events.
package google

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// minCalendarIDLength is shorter than any real Google calendar id.
const minCalendarIDLength = 5

// placeholderCalendarIDs are values stored by clients that meant "default".
var placeholderCalendarIDs = map[string]bool{
	"primary":   true,
	"default":   true,
	"undefined": true,
	"null":      true,
	"calendar":  true,
}

// NormalizeCalendarID maps empty, placeholder and truncated ids to the
// account's primary calendar.
func NormalizeCalendarID(calendarID string) string {
	id := strings.TrimSpace(calendarID)
	if placeholderCalendarIDs[strings.ToLower(id)] || len(id) < minCalendarIDLength {
		return constants.DefaultCalendarID
	}
	return id
}

// CalendarProvider implements domain.CalendarProvider on Google Calendar
type CalendarProvider struct {
	client api.ClientAPI
	tokens *oauth.Validator
}

var _ domain.CalendarProvider = (*CalendarProvider)(nil)

// NewCalendarProvider creates a Google Calendar provider
func NewCalendarProvider(client api.ClientAPI, tokens *oauth.Validator) *CalendarProvider {
	return &CalendarProvider{client: client, tokens: tokens}
}

// Name returns the registry name of the provider
func (p *CalendarProvider) Name() string {
	return models.ProviderGoogleCalendar
}

// TokenNeedsRefresh reports whether the Google token is inside its expiry margin
func (p *CalendarProvider) TokenNeedsRefresh(token models.TokenConfig) bool {
	return p.tokens.NeedsRefresh(token)
}

// ValidateAndRefreshToken refreshes the Google token when needed
func (p *CalendarProvider) ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	return p.tokens.Validate(ctx, token)
}

// CreateEvent creates a calendar event whose description and location carry
// the meeting link.
func (p *CalendarProvider) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, token models.TokenConfig) (string, error) {
	calendarID = NormalizeCalendarID(calendarID)
	ctx = logging.AppendCtx(ctx, slog.String("calendar_id", calendarID))

	created, err := p.client.InsertEvent(ctx, token.AccessToken, calendarID, toGoogleEvent(event), false)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Google Calendar event", logging.ErrKey, err)
		return "", domain.NewProviderOperationError(models.ProviderGoogleCalendar, "create_event", err)
	}

	slog.InfoContext(ctx, "created Google Calendar event", "calendar_event_id", created.ID)
	return created.ID, nil
}

// DeleteEvent deletes a calendar event; an event that no longer exists
// counts as deleted
func (p *CalendarProvider) DeleteEvent(ctx context.Context, calendarID, eventID string, token models.TokenConfig) error {
	return deleteEvent(ctx, p.client, models.ProviderGoogleCalendar, NormalizeCalendarID(calendarID), eventID, token)
}

// CanHandleCalendar reports whether the id is used as given rather than
// replaced by the primary calendar.
func (p *CalendarProvider) CanHandleCalendar(calendarID string) bool {
	id := strings.TrimSpace(calendarID)
	return id == constants.DefaultCalendarID || NormalizeCalendarID(id) == id
}

// GetCalendarInfo reads the calendar's name, zone and primary flag.
func (p *CalendarProvider) GetCalendarInfo(ctx context.Context, calendarID string, token models.TokenConfig) (*models.CalendarInfo, error) {
	entry, err := p.client.GetCalendar(ctx, token.AccessToken, NormalizeCalendarID(calendarID))
	if err != nil {
		return nil, domain.NewProviderOperationError(models.ProviderGoogleCalendar, "get_calendar", err)
	}
	return &models.CalendarInfo{
		ID:       entry.ID,
		Name:     entry.Summary,
		Primary:  entry.Primary,
		Timezone: entry.TimeZone,
	}, nil
}

func deleteEvent(ctx context.Context, client api.ClientAPI, provider, calendarID, eventID string, token models.TokenConfig) error {
	ctx = logging.AppendCtx(ctx,
		slog.String("calendar_id", calendarID),
		slog.String("calendar_event_id", eventID),
	)

	err := client.DeleteEvent(ctx, token.AccessToken, calendarID, eventID)
	if err == nil {
		slog.InfoContext(ctx, "deleted Google Calendar event")
		return nil
	}
	if httpclient.IsNotFound(err) {
		slog.InfoContext(ctx, "Google Calendar event already gone, treating as deleted")
		return nil
	}

	slog.ErrorContext(ctx, "failed to delete Google Calendar event", logging.ErrKey, err)
	return domain.NewProviderOperationError(provider, "delete_event", err)
}

func toGoogleEvent(event models.CalendarEvent) *api.Event {
	description := event.Description
	if event.MeetingURL != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Join meeting: " + event.MeetingURL
	}

	return &api.Event{
		Summary:     event.Title,
		Description: description,
		Location:    event.MeetingURL,
		Start:       toDateTime(event.StartTime, event.Timezone),
		End:         toDateTime(event.EndTime, event.Timezone),
		Attendees:   toAttendees(event.Attendees),
	}
}

// toDateTime renders the instant in the requested zone, falling back to UTC
// for zones Go does not know.
func toDateTime(t time.Time, timezone string) *api.EventDateTime {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		return &api.EventDateTime{DateTime: t.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	}
	return &api.EventDateTime{DateTime: t.In(loc).Format(time.RFC3339), TimeZone: timezone}
}

func toAttendees(attendees []models.Attendee) []api.EventAttendee {
	out := make([]api.EventAttendee, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, api.EventAttendee{Email: a.Email, DisplayName: a.Name})
	}
	return out
}
