// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package microsoft holds the Outlook Calendar provider on Microsoft Graph.
package microsoft

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/microsoft/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// minCalendarIDLength is shorter than any Graph calendar id.
const minCalendarIDLength = 20

var placeholderCalendarIDs = map[string]bool{
	"primary":   true,
	"default":   true,
	"undefined": true,
	"null":      true,
	"calendar":  true,
}

// NormalizeCalendarID returns "" (the default calendar) for empty,
// placeholder and truncated ids.
func NormalizeCalendarID(calendarID string) string {
	id := strings.TrimSpace(calendarID)
	if placeholderCalendarIDs[strings.ToLower(id)] || len(id) < minCalendarIDLength {
		return ""
	}
	return id
}

// OutlookCalendarProvider implements domain.CalendarProvider on Graph
type OutlookCalendarProvider struct {
	client api.ClientAPI
	tokens *oauth.Validator
}

var _ domain.CalendarProvider = (*OutlookCalendarProvider)(nil)

// NewOutlookCalendarProvider creates an Outlook Calendar provider
func NewOutlookCalendarProvider(client api.ClientAPI, tokens *oauth.Validator) *OutlookCalendarProvider {
	return &OutlookCalendarProvider{client: client, tokens: tokens}
}

// Name returns the registry name of the provider
func (p *OutlookCalendarProvider) Name() string {
	return models.ProviderOutlookCalendar
}

// TokenNeedsRefresh reports whether the Microsoft token is inside its expiry margin
func (p *OutlookCalendarProvider) TokenNeedsRefresh(token models.TokenConfig) bool {
	return p.tokens.NeedsRefresh(token)
}

// ValidateAndRefreshToken refreshes the Microsoft token when needed
func (p *OutlookCalendarProvider) ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	return p.tokens.Validate(ctx, token)
}

// CreateEvent creates an Outlook event whose body and location carry the
// meeting link.
func (p *OutlookCalendarProvider) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, token models.TokenConfig) (string, error) {
	calendarID = NormalizeCalendarID(calendarID)
	ctx = logging.AppendCtx(ctx, slog.String("events_path", api.EventsPath(calendarID)))

	created, err := p.client.CreateEvent(ctx, token.AccessToken, calendarID, toGraphEvent(event))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Outlook event", logging.ErrKey, err)
		return "", domain.NewProviderOperationError(models.ProviderOutlookCalendar, "create_event", err)
	}

	slog.InfoContext(ctx, "created Outlook event", "calendar_event_id", created.ID)
	return created.ID, nil
}

// DeleteEvent deletes an Outlook event; an event that no longer exists
// counts as deleted
func (p *OutlookCalendarProvider) DeleteEvent(ctx context.Context, calendarID, eventID string, token models.TokenConfig) error {
	calendarID = NormalizeCalendarID(calendarID)
	ctx = logging.AppendCtx(ctx,
		slog.String("events_path", api.EventsPath(calendarID)),
		slog.String("calendar_event_id", eventID),
	)

	err := p.client.DeleteEvent(ctx, token.AccessToken, calendarID, eventID)
	if err == nil {
		slog.InfoContext(ctx, "deleted Outlook event")
		return nil
	}
	if httpclient.IsNotFound(err) {
		slog.InfoContext(ctx, "Outlook event already gone, treating as deleted")
		return nil
	}

	slog.ErrorContext(ctx, "failed to delete Outlook event", logging.ErrKey, err)
	return domain.NewProviderOperationError(models.ProviderOutlookCalendar, "delete_event", err)
}

// CanHandleCalendar reports whether the id addresses a specific calendar
// rather than the default one.
func (p *OutlookCalendarProvider) CanHandleCalendar(calendarID string) bool {
	return NormalizeCalendarID(calendarID) != ""
}

// GetCalendarInfo reads a calendar. Personal accounts sometimes reject
// specific calendar lookups, so the default calendar is tried as a fallback.
func (p *OutlookCalendarProvider) GetCalendarInfo(ctx context.Context, calendarID string, token models.TokenConfig) (*models.CalendarInfo, error) {
	calendarID = NormalizeCalendarID(calendarID)

	calendar, err := p.client.GetCalendar(ctx, token.AccessToken, calendarID)
	if err != nil && calendarID != "" && !httpclient.IsUnauthorized(err) {
		slog.WarnContext(ctx, "Outlook calendar lookup failed, using default calendar", logging.ErrKey, err)
		calendar, err = p.client.GetCalendar(ctx, token.AccessToken, "")
	}
	if err != nil {
		return nil, domain.NewProviderOperationError(models.ProviderOutlookCalendar, "get_calendar", err)
	}

	return &models.CalendarInfo{
		ID:      calendar.ID,
		Name:    calendar.Name,
		Primary: calendar.IsDefaultCalendar,
	}, nil
}

func toGraphEvent(event models.CalendarEvent) *api.Event {
	content := html.EscapeString(event.Description)
	content = strings.ReplaceAll(content, "\n", "<br>")
	var location *api.Location
	if event.MeetingURL != "" {
		link := html.EscapeString(event.MeetingURL)
		if content != "" {
			content += "<br><br>"
		}
		content += `Join meeting: <a href="` + link + `">` + link + `</a>`
		location = &api.Location{DisplayName: event.MeetingURL, LocationURI: event.MeetingURL}
	}

	attendees := make([]api.Attendee, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		attendees = append(attendees, api.Attendee{
			EmailAddress: api.EmailAddress{Address: a.Email, Name: a.Name},
			Type:         api.AttendeeTypeRequired,
		})
	}

	return &api.Event{
		Subject:   event.Title,
		Body:      &api.ItemBody{ContentType: api.BodyContentTypeHTML, Content: content},
		Start:     toDateTimeZone(event.StartTime, event.Timezone),
		End:       toDateTimeZone(event.EndTime, event.Timezone),
		Location:  location,
		Attendees: attendees,
	}
}

// toDateTimeZone renders wall-clock time in the requested zone, falling
// back to UTC for zones Go does not know.
func toDateTimeZone(t time.Time, timezone string) *api.DateTimeZone {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		return &api.DateTimeZone{DateTime: t.UTC().Format(api.DateTimeLayout), TimeZone: "UTC"}
	}
	return &api.DateTimeZone{DateTime: t.In(loc).Format(api.DateTimeLayout), TimeZone: timezone}
}
