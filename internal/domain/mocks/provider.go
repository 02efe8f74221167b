// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// MockMeetingProvider implements domain.MeetingProvider for testing
type MockMeetingProvider struct {
	mock.Mock
}

func (m *MockMeetingProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMeetingProvider) TokenNeedsRefresh(token models.TokenConfig) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockMeetingProvider) ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.TokenConfig), args.Error(1)
}

func (m *MockMeetingProvider) CreateMeeting(ctx context.Context, config models.MeetingConfig, token models.TokenConfig) (*models.MeetingInfo, error) {
	args := m.Called(ctx, config, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingInfo), args.Error(1)
}

func (m *MockMeetingProvider) DeleteMeeting(ctx context.Context, meetingID string, token models.TokenConfig, ownerUserID string) error {
	args := m.Called(ctx, meetingID, token, ownerUserID)
	return args.Error(0)
}

func (m *MockMeetingProvider) CanCreateMeetings(ctx context.Context, userID string, token models.TokenConfig) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

// MockCalendarProvider implements domain.CalendarProvider for testing
type MockCalendarProvider struct {
	mock.Mock
}

func (m *MockCalendarProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCalendarProvider) TokenNeedsRefresh(token models.TokenConfig) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockCalendarProvider) ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.TokenConfig), args.Error(1)
}

func (m *MockCalendarProvider) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, token models.TokenConfig) (string, error) {
	args := m.Called(ctx, calendarID, event, token)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarProvider) DeleteEvent(ctx context.Context, calendarID, eventID string, token models.TokenConfig) error {
	args := m.Called(ctx, calendarID, eventID, token)
	return args.Error(0)
}

func (m *MockCalendarProvider) CanHandleCalendar(calendarID string) bool {
	args := m.Called(calendarID)
	return args.Bool(0)
}

func (m *MockCalendarProvider) GetCalendarInfo(ctx context.Context, calendarID string, token models.TokenConfig) (*models.CalendarInfo, error) {
	args := m.Called(ctx, calendarID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarInfo), args.Error(1)
}

// MockCombinedProvider implements both provider capabilities, as the
// Google Meet provider does.
type MockCombinedProvider struct {
	MockMeetingProvider
}

func (m *MockCombinedProvider) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, token models.TokenConfig) (string, error) {
	args := m.Called(ctx, calendarID, event, token)
	return args.String(0), args.Error(1)
}

func (m *MockCombinedProvider) DeleteEvent(ctx context.Context, calendarID, eventID string, token models.TokenConfig) error {
	args := m.Called(ctx, calendarID, eventID, token)
	return args.Error(0)
}

func (m *MockCombinedProvider) CanHandleCalendar(calendarID string) bool {
	args := m.Called(calendarID)
	return args.Bool(0)
}

func (m *MockCombinedProvider) GetCalendarInfo(ctx context.Context, calendarID string, token models.TokenConfig) (*models.CalendarInfo, error) {
	args := m.Called(ctx, calendarID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarInfo), args.Error(1)
}

// MockProviderRegistry implements domain.ProviderRegistry for testing
type MockProviderRegistry struct {
	mock.Mock
}

func (m *MockProviderRegistry) MeetingProvider(name string) (domain.MeetingProvider, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.MeetingProvider), args.Error(1)
}

func (m *MockProviderRegistry) CalendarProvider(name string) (domain.CalendarProvider, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.CalendarProvider), args.Error(1)
}
