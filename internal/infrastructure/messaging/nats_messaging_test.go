// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// MockNATSConn is a mock implementation of INatsConn
type MockNATSConn struct {
	mock.Mock
}

func (m *MockNATSConn) PublishMsg(msg *nats.Msg) error {
	args := m.Called(msg)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestBuilder(conn INatsConn) *MessageBuilder {
	builder := NewMessageBuilder(conn)
	builder.now = func() time.Time { return fixedNow }
	return builder
}

func TestMessageBuilder_sendMessage(t *testing.T) {
	tests := []struct {
		name         string
		publishError error
		expectError  bool
	}{
		{name: "successful send"},
		{name: "publish error", publishError: errors.New("publish failed"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := new(MockNATSConn)
			mockConn.On("PublishMsg", mock.MatchedBy(func(msg *nats.Msg) bool {
				return msg.Subject == "test.subject" &&
					string(msg.Data) == "test data" &&
					msg.Header.Get(constants.RequestIDHeader) == "req-1"
			})).Return(tt.publishError)

			ctx := context.WithValue(context.Background(), constants.RequestIDContextID, "req-1")
			err := newTestBuilder(mockConn).sendMessage(ctx, "test.subject", []byte("test data"))

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockConn.AssertExpectations(t)
		})
	}
}

func TestMessageBuilder_PublishMeetingScheduled(t *testing.T) {
	mockConn := new(MockNATSConn)
	var sent *nats.Msg
	mockConn.On("PublishMsg", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*nats.Msg)
	}).Return(nil)

	meeting := &models.Meeting{ID: "mtg-1", Status: models.MeetingStatusScheduled}
	require.NoError(t, newTestBuilder(mockConn).PublishMeetingScheduled(context.Background(), meeting))

	require.NotNil(t, sent)
	assert.Equal(t, models.MeetingScheduledSubject, sent.Subject)

	var payload models.MeetingScheduledMessage
	require.NoError(t, json.Unmarshal(sent.Data, &payload))
	assert.Equal(t, "mtg-1", payload.Meeting.ID)
	assert.True(t, fixedNow.Equal(payload.ScheduledAt))
}

func TestMessageBuilder_PublishMeetingCancelled(t *testing.T) {
	mockConn := new(MockNATSConn)
	var sent *nats.Msg
	mockConn.On("PublishMsg", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*nats.Msg)
	}).Return(nil)

	cancelledAt := fixedNow.Add(-time.Minute)
	meeting := &models.Meeting{ID: "mtg-1", Status: models.MeetingStatusCancelled, CancelledAt: &cancelledAt}
	result := &models.CancelMeetingResult{
		Success:         true,
		CalendarDeleted: true,
		Errors:          []string{"zoom delete_meeting failed"},
	}
	require.NoError(t, newTestBuilder(mockConn).PublishMeetingCancelled(context.Background(), meeting, result))

	require.NotNil(t, sent)
	assert.Equal(t, models.MeetingCancelledSubject, sent.Subject)

	var payload models.MeetingCancelledMessage
	require.NoError(t, json.Unmarshal(sent.Data, &payload))
	assert.True(t, payload.CalendarDeleted)
	assert.False(t, payload.MeetingDeleted)
	assert.Equal(t, []string{"zoom delete_meeting failed"}, payload.CleanupErrors)
	assert.True(t, cancelledAt.Equal(payload.CancelledAt))
}

func TestNatsMessage(t *testing.T) {
	msg := NewNatsMessage(&nats.Msg{Subject: models.CreateMeetingSubject, Data: []byte(`{}`)})
	assert.Equal(t, models.CreateMeetingSubject, msg.Subject())
	assert.Equal(t, []byte(`{}`), msg.Data())
	assert.False(t, msg.HasReply())

	ctx := context.Background()
	assert.Equal(t, ctx, msg.Context(ctx))

	withReply := NewNatsMessage(&nats.Msg{Subject: "s", Reply: "_INBOX.1"})
	assert.True(t, withReply.HasReply())
}
