// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// MockMessage implements domain.Message for testing
type MockMessage struct {
	mock.Mock
}

func (m *MockMessage) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMessage) Data() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockMessage) Respond(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockMessage) HasReply() bool {
	args := m.Called()
	return args.Bool(0)
}

// NewMockMessage builds a message expecting one reply.
func NewMockMessage(subject string, data []byte) *MockMessage {
	msg := &MockMessage{}
	msg.On("Subject").Return(subject)
	msg.On("Data").Return(data)
	msg.On("HasReply").Return(true)
	return msg
}

// MockBookingEventPublisher implements domain.BookingEventPublisher for testing
type MockBookingEventPublisher struct {
	mock.Mock
}

func (m *MockBookingEventPublisher) PublishMeetingScheduled(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockBookingEventPublisher) PublishMeetingCancelled(ctx context.Context, meeting *models.Meeting, result *models.CancelMeetingResult) error {
	args := m.Called(ctx, meeting, result)
	return args.Error(0)
}

// MockRefreshLocker implements domain.RefreshLocker for testing
type MockRefreshLocker struct {
	mock.Mock
}

func (m *MockRefreshLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	args := m.Called(ctx, key, ttl)
	release, _ := args.Get(0).(func(context.Context) error)
	return release, args.Bool(1), args.Error(2)
}

var _ domain.RefreshLocker = (*MockRefreshLocker)(nil)
