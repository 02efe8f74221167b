// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/zoom/api"
)

// MockClient is a function-field mock of the Zoom API client
type MockClient struct {
	CreateMeetingFunc func(ctx context.Context, accessToken, userID string, request *api.CreateMeetingRequest) (*api.CreateMeetingResponse, error)
	DeleteMeetingFunc func(ctx context.Context, accessToken, meetingID string) error
	GetUserFunc       func(ctx context.Context, accessToken, userID string) (*api.ZoomUser, error)
}

// Ensure MockClient implements ClientAPI interface
var _ api.ClientAPI = (*MockClient)(nil)

// CreateMeeting mocks the CreateMeeting API call
func (m *MockClient) CreateMeeting(ctx context.Context, accessToken, userID string, request *api.CreateMeetingRequest) (*api.CreateMeetingResponse, error) {
	if m.CreateMeetingFunc != nil {
		return m.CreateMeetingFunc(ctx, accessToken, userID, request)
	}
	return &api.CreateMeetingResponse{
		ID:       123456789,
		UUID:     "test-uuid-123",
		HostID:   userID,
		Topic:    request.Topic,
		Type:     request.Type,
		Duration: request.Duration,
		Timezone: request.Timezone,
		JoinURL:  "https://zoom.us/j/123456789",
		StartURL: "https://zoom.us/s/123456789",
		Password: request.Password,
	}, nil
}

// DeleteMeeting mocks the DeleteMeeting API call
func (m *MockClient) DeleteMeeting(ctx context.Context, accessToken, meetingID string) error {
	if m.DeleteMeetingFunc != nil {
		return m.DeleteMeetingFunc(ctx, accessToken, meetingID)
	}
	return nil
}

// GetUser mocks the GetUser API call
func (m *MockClient) GetUser(ctx context.Context, accessToken, userID string) (*api.ZoomUser, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken, userID)
	}
	return &api.ZoomUser{ID: "zoom-user-1", Email: "host@example.com", Status: api.UserStatusActive}, nil
}
