// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/microsoft/api"
)

// MockClient is a function-field mock of the Graph client
type MockClient struct {
	CreateEventFunc func(ctx context.Context, accessToken, calendarID string, event *api.Event) (*api.Event, error)
	DeleteEventFunc func(ctx context.Context, accessToken, calendarID, eventID string) error
	GetCalendarFunc func(ctx context.Context, accessToken, calendarID string) (*api.Calendar, error)
}

var _ api.ClientAPI = (*MockClient)(nil)

// CreateEvent mocks the CreateEvent API call
func (m *MockClient) CreateEvent(ctx context.Context, accessToken, calendarID string, event *api.Event) (*api.Event, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, accessToken, calendarID, event)
	}
	created := *event
	created.ID = "AAMkAGI2TG93AAA="
	created.WebLink = "https://outlook.office365.com/owa/?itemid=AAMkAGI2TG93AAA%3D"
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
func (m *MockClient) GetCalendar(ctx context.Context, accessToken, calendarID string) (*api.Calendar, error) {
	if m.GetCalendarFunc != nil {
		return m.GetCalendarFunc(ctx, accessToken, calendarID)
	}
	return &api.Calendar{ID: "AAMkAGI2calendar", Name: "Calendar", IsDefaultCalendar: calendarID == "", CanEdit: true}, nil
}
