// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/google/api"
)

// MockClient is a function-field mock of the Google Calendar client
type MockClient struct {
	InsertEventFunc func(ctx context.Context, accessToken, calendarID string, event *api.Event, withConference bool) (*api.Event, error)
	DeleteEventFunc func(ctx context.Context, accessToken, calendarID, eventID string) error
	GetCalendarFunc func(ctx context.Context, accessToken, calendarID string) (*api.CalendarListEntry, error)
}

var _ api.ClientAPI = (*MockClient)(nil)

// InsertEvent mocks the InsertEvent API call
func (m *MockClient) InsertEvent(ctx context.Context, accessToken, calendarID string, event *api.Event, withConference bool) (*api.Event, error) {
	if m.InsertEventFunc != nil {
		return m.InsertEventFunc(ctx, accessToken, calendarID, event, withConference)
	}
	created := *event
	created.ID = "gcal-event-1"
	created.Status = "confirmed"
	if withConference {
		created.HangoutLink = "https://meet.google.com/abc-defg-hij"
	}
	return &created, nil
}

// DeleteEvent mocks the DeleteEvent API call
func (m *MockClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, accessToken, calendarID, eventID)
	}
	return nil
}

// GetCalendar mocks the GetCalendar API call
func (m *MockClient) GetCalendar(ctx context.Context, accessToken, calendarID string) (*api.CalendarListEntry, error) {
	if m.GetCalendarFunc != nil {
		return m.GetCalendarFunc(ctx, accessToken, calendarID)
	}
	return &api.CalendarListEntry{ID: "owner@example.com", Summary: "Owner", TimeZone: "UTC", Primary: calendarID == "primary"}, nil
}
