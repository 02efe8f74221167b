// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api/mocks"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
)

var (
	token     = models.TokenConfig{AccessToken: "google-access"}
	validator = oauth.NewGoogleValidator("id", "secret", "http://127.0.0.1:0")
	start     = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
)

func TestNormalizeCalendarID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "primary"},
		{"primary", "primary"},
		{"Default", "primary"},
		{"undefined", "primary"},
		{"null", "primary"},
		{"calendar", "primary"},
		{"abc", "primary"},
		{"  ", "primary"},
		{"owner@example.com", "owner@example.com"},
		{"team@group.calendar.google.com", "team@group.calendar.google.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCalendarID(tt.in))
		})
	}
}

func TestCalendarProvider_CanHandleCalendar(t *testing.T) {
	p := NewCalendarProvider(&mocks.MockClient{}, validator)
	assert.True(t, p.CanHandleCalendar("primary"))
	assert.True(t, p.CanHandleCalendar("owner@example.com"))
	assert.False(t, p.CanHandleCalendar("null"))
	assert.False(t, p.CanHandleCalendar("ab"))
}

func TestCalendarProvider_CreateEvent(t *testing.T) {
	client := &mocks.MockClient{
		InsertEventFunc: func(ctx context.Context, accessToken, calendarID string, event *api.Event, withConference bool) (*api.Event, error) {
			assert.Equal(t, "google-access", accessToken)
			assert.Equal(t, "primary", calendarID)
			assert.False(t, withConference)
			assert.Nil(t, event.ConferenceData)
			assert.Equal(t, "Ana - Intro", event.Summary)
			assert.Contains(t, event.Description, "https://zoom.us/j/1")
			assert.Equal(t, "https://zoom.us/j/1", event.Location)
			assert.Equal(t, "2025-03-10T16:00:00+01:00", event.Start.DateTime)
			assert.Equal(t, "Europe/Madrid", event.Start.TimeZone)
			assert.Equal(t, []api.EventAttendee{{Email: "ana@x.com", DisplayName: "Ana"}}, event.Attendees)
			return &api.Event{ID: "gcal-1"}, nil
		},
	}

	id, err := NewCalendarProvider(client, validator).CreateEvent(context.Background(), "undefined", models.CalendarEvent{
		Title:       "Ana - Intro",
		Description: "Agenda",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Timezone:    "Europe/Madrid",
		Attendees:   []models.Attendee{{Name: "Ana", Email: "ana@x.com"}},
		MeetingURL:  "https://zoom.us/j/1",
	}, token)

	require.NoError(t, err)
	assert.Equal(t, "gcal-1", id)
}

func TestCalendarProvider_CreateEvent_Failure(t *testing.T) {
	client := &mocks.MockClient{
		InsertEventFunc: func(context.Context, string, string, *api.Event, bool) (*api.Event, error) {
			return nil, &httpclient.APIError{Provider: "google", StatusCode: http.StatusForbidden}
		},
	}

	_, err := NewCalendarProvider(client, validator).CreateEvent(context.Background(), "primary", models.CalendarEvent{StartTime: start, EndTime: start}, token)

	assert.Equal(t, domain.ErrorTypeProviderOperation, domain.GetErrorType(err))
	assert.Equal(t, models.ProviderGoogleCalendar, domain.GetErrorDetails(err)[domain.DetailProvider])
}

func TestCalendarProvider_DeleteEvent(t *testing.T) {
	tests := []struct {
		name      string
		clientErr error
		wantErr   bool
	}{
		{name: "deleted"},
		{name: "not found", clientErr: &httpclient.APIError{StatusCode: http.StatusNotFound}},
		{name: "gone", clientErr: &httpclient.APIError{StatusCode: http.StatusGone, Code: "deleted"}},
		{name: "forbidden", clientErr: &httpclient.APIError{StatusCode: http.StatusForbidden}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockClient{
				DeleteEventFunc: func(ctx context.Context, accessToken, calendarID, eventID string) error {
					assert.Equal(t, "owner@example.com", calendarID)
					assert.Equal(t, "gcal-1", eventID)
					return tt.clientErr
				},
			}
			err := NewCalendarProvider(client, validator).DeleteEvent(context.Background(), "owner@example.com", "gcal-1", token)
			if tt.wantErr {
				assert.Equal(t, domain.ErrorTypeProviderOperation, domain.GetErrorType(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCalendarProvider_GetCalendarInfo(t *testing.T) {
	info, err := NewCalendarProvider(&mocks.MockClient{}, validator).GetCalendarInfo(context.Background(), "", token)
	require.NoError(t, err)
	assert.True(t, info.Primary)
	assert.Equal(t, "owner@example.com", info.ID)
}

func TestMeetProvider_CreateMeeting(t *testing.T) {
	var requestIDs []string
	client := &mocks.MockClient{
		InsertEventFunc: func(ctx context.Context, accessToken, calendarID string, event *api.Event, withConference bool) (*api.Event, error) {
			assert.True(t, withConference)
			assert.Equal(t, "team@group.calendar.google.com", calendarID)
			require.NotNil(t, event.ConferenceData)
			assert.Equal(t, api.ConferenceSolutionHangoutsMeet, event.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
			requestIDs = append(requestIDs, event.ConferenceData.CreateRequest.RequestID)
			return &api.Event{ID: "gcal-meet-1", HangoutLink: "https://meet.google.com/abc-defg-hij"}, nil
		},
	}
	p := NewMeetProvider(client, validator)

	for i := 0; i < 2; i++ {
		info, err := p.CreateMeeting(context.Background(), models.MeetingConfig{
			Topic:      "Ana - Intro",
			StartTime:  start,
			EndTime:    start.Add(30 * time.Minute),
			Timezone:   "UTC",
			CalendarID: "team@group.calendar.google.com",
		}, token)
		require.NoError(t, err)
		assert.Equal(t, "gcal-meet-1", info.ID)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", info.JoinURL)
	}
	require.Len(t, requestIDs, 2)
	assert.NotEqual(t, requestIDs[0], requestIDs[1])
}

func TestMeetProvider_CreateMeeting_NoConference(t *testing.T) {
	var deleted []string
	client := &mocks.MockClient{
		InsertEventFunc: func(context.Context, string, string, *api.Event, bool) (*api.Event, error) {
			return &api.Event{ID: "gcal-1"}, nil
		},
		DeleteEventFunc: func(_ context.Context, accessToken, calendarID, eventID string) error {
			assert.Equal(t, token.AccessToken, accessToken)
			assert.Equal(t, "primary", calendarID)
			deleted = append(deleted, eventID)
			return nil
		},
	}

	_, err := NewMeetProvider(client, validator).CreateMeeting(context.Background(), models.MeetingConfig{StartTime: start, EndTime: start}, token)

	assert.Equal(t, domain.ErrorTypeProviderOperation, domain.GetErrorType(err))
	assert.ErrorIs(t, err, errNoConference)
	assert.Equal(t, []string{"gcal-1"}, deleted)
}

func TestMeetProvider_CreateMeeting_NoConferenceCleanupFails(t *testing.T) {
	client := &mocks.MockClient{
		InsertEventFunc: func(context.Context, string, string, *api.Event, bool) (*api.Event, error) {
			return &api.Event{ID: "gcal-1"}, nil
		},
		DeleteEventFunc: func(context.Context, string, string, string) error {
			return &httpclient.APIError{StatusCode: http.StatusInternalServerError}
		},
	}

	_, err := NewMeetProvider(client, validator).CreateMeeting(context.Background(), models.MeetingConfig{StartTime: start, EndTime: start}, token)

	// The missing conference is reported, not the cleanup failure.
	assert.Equal(t, domain.ErrorTypeProviderOperation, domain.GetErrorType(err))
	assert.ErrorIs(t, err, errNoConference)
	assert.Equal(t, "create_meeting", domain.GetErrorDetails(err)[domain.DetailOperation])
}

func TestMeetProvider_DeleteMeeting(t *testing.T) {
	client := &mocks.MockClient{
		DeleteEventFunc: func(ctx context.Context, accessToken, calendarID, eventID string) error {
			assert.Equal(t, "primary", calendarID)
			return &httpclient.APIError{StatusCode: http.StatusNotFound}
		},
	}
	assert.NoError(t, NewMeetProvider(client, validator).DeleteMeeting(context.Background(), "gcal-1", token, "owner-1"))
}

func TestMeetProvider_CanCreateMeetings(t *testing.T) {
	p := NewMeetProvider(&mocks.MockClient{}, validator)
	ok, err := p.CanCreateMeetings(context.Background(), "owner-1", token)
	require.NoError(t, err)
	assert.True(t, ok)

	reader := NewMeetProvider(&mocks.MockClient{GetCalendarFunc: func(context.Context, string, string) (*api.CalendarListEntry, error) {
		return &api.CalendarListEntry{ID: "x", AccessRole: "reader"}, nil
	}}, validator)
	ok, err = reader.CanCreateMeetings(context.Background(), "owner-1", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMeetProvider_Names(t *testing.T) {
	assert.Equal(t, models.ProviderGoogleMeet, NewMeetProvider(&mocks.MockClient{}, validator).Name())
	assert.Equal(t, models.ProviderGoogleCalendar, NewCalendarProvider(&mocks.MockClient{}, validator).Name())
}
