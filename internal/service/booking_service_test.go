// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/store"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type bookingSetup struct {
	service    *BookingService
	repos      *domain.Repositories
	strategies *mocks.MockStrategyFactory
	strategy   *mocks.MockMeetingStrategy
	publisher  *mocks.MockBookingEventPublisher
}

func newBookingSetup(t *testing.T) *bookingSetup {
	t.Helper()
	repos := store.NewMemoryRepositories()
	strategies := &mocks.MockStrategyFactory{}
	meetingStrategy := &mocks.MockMeetingStrategy{}
	meetingStrategy.On("StrategyName").Return("zoom+outlook_calendar").Maybe()
	publisher := &mocks.MockBookingEventPublisher{}

	svc := NewBookingService(repos, strategies, publisher, ServiceConfig{})
	svc.now = func() time.Time { return testNow }
	return &bookingSetup{
		service:    svc,
		repos:      repos,
		strategies: strategies,
		strategy:   meetingStrategy,
		publisher:  publisher,
	}
}

func (b *bookingSetup) putEvent(t *testing.T, private bool) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:              "evt-1",
		OwnerUserID:     "owner-1",
		Title:           "Office hours",
		LocationType:    models.LocationTypeOutlookWithZoom,
		DurationMinutes: 30,
		IsPrivate:       private,
	}
	require.NoError(t, b.repos.Events.UpsertEvent(context.Background(), event))
	return event
}

func createRequest() *models.CreateMeetingRequest {
	return &models.CreateMeetingRequest{
		EventID:    "evt-1",
		GuestName:  "Ana",
		GuestEmail: "ana@x.com",
		StartTime:  "2025-03-10T15:00:00Z",
		EndTime:    "2025-03-10T15:30:00Z",
		Timezone:   "UTC",
	}
}

func TestBookingServiceReady(t *testing.T) {
	b := newBookingSetup(t)
	assert.True(t, b.service.ServiceReady())

	b.service.Strategies = nil
	assert.False(t, b.service.ServiceReady())

	_, err := b.service.CreateMeeting(context.Background(), createRequest())
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestBookingServiceCreateMeeting(t *testing.T) {
	b := newBookingSetup(t)
	ctx := context.Background()
	b.putEvent(t, false)

	meeting := &models.Meeting{ID: "mtg-1", Reference: "ref", Status: models.MeetingStatusScheduled}
	b.strategies.On("CreateStrategy", models.LocationTypeOutlookWithZoom).Return(b.strategy, nil)
	b.strategy.On("CreateMeeting", mock.Anything, mock.MatchedBy(func(r *models.BookingRequest) bool {
		return r.Event.ID == "evt-1" &&
			r.GuestName == "Ana" &&
			r.StartTime.Equal(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)) &&
			r.EndTime.Equal(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC))
	})).Return(&models.CreateMeetingResult{MeetLink: "https://zoom.us/j/1", Meeting: meeting}, nil)
	b.publisher.On("PublishMeetingScheduled", mock.Anything, meeting).Return(nil)

	result, err := b.service.CreateMeeting(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.us/j/1", result.MeetLink)
	assert.Equal(t, meeting, result.Meeting)

	b.strategy.AssertExpectations(t)
	b.publisher.AssertExpectations(t)
}

func TestBookingServiceCreateMeetingPublishFailureIgnored(t *testing.T) {
	b := newBookingSetup(t)
	b.putEvent(t, false)

	meeting := &models.Meeting{ID: "mtg-1"}
	b.strategies.On("CreateStrategy", mock.Anything).Return(b.strategy, nil)
	b.strategy.On("CreateMeeting", mock.Anything, mock.Anything).
		Return(&models.CreateMeetingResult{MeetLink: "https://zoom.us/j/1", Meeting: meeting}, nil)
	b.publisher.On("PublishMeetingScheduled", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	result, err := b.service.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, meeting, result.Meeting)
}

func TestBookingServiceCreateMeetingErrors(t *testing.T) {
	t.Run("invalid request never reaches storage", func(t *testing.T) {
		b := newBookingSetup(t)
		req := createRequest()
		req.GuestEmail = "nope"

		_, err := b.service.CreateMeeting(context.Background(), req)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		b.strategies.AssertNotCalled(t, "CreateStrategy", mock.Anything)
	})

	t.Run("unknown event", func(t *testing.T) {
		b := newBookingSetup(t)
		_, err := b.service.CreateMeeting(context.Background(), createRequest())
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("private event", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putEvent(t, true)
		_, err := b.service.CreateMeeting(context.Background(), createRequest())
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
		b.strategies.AssertNotCalled(t, "CreateStrategy", mock.Anything)
	})

	t.Run("dispatch failure surfaces verbatim", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putEvent(t, false)
		b.strategies.On("CreateStrategy", mock.Anything).
			Return(nil, domain.NewNotImplementedError("OUTLOOK_WITH_ZOOM", "ZOOM_OUTLOOK_CALENDAR"))

		_, err := b.service.CreateMeeting(context.Background(), createRequest())
		assert.Equal(t, domain.ErrorTypeNotImplemented, domain.GetErrorType(err))
	})

	t.Run("strategy failure is not published", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putEvent(t, false)
		b.strategies.On("CreateStrategy", mock.Anything).Return(b.strategy, nil)
		b.strategy.On("CreateMeeting", mock.Anything, mock.Anything).
			Return(nil, domain.NewIntegrationMissingError("ZOOM_MEETING"))

		_, err := b.service.CreateMeeting(context.Background(), createRequest())
		assert.Equal(t, domain.ErrorTypeIntegrationMissing, domain.GetErrorType(err))
		b.publisher.AssertNotCalled(t, "PublishMeetingScheduled", mock.Anything, mock.Anything)
	})
}

func (b *bookingSetup) putMeeting(t *testing.T, status models.MeetingStatus) *models.Meeting {
	t.Helper()
	meeting := &models.Meeting{
		ID:           "mtg-1",
		EventID:      "evt-1",
		OwnerUserID:  "owner-1",
		LocationType: models.LocationTypeOutlookWithZoom,
		Status:       status,
	}
	require.NoError(t, b.repos.Meetings.CreateMeeting(context.Background(), meeting))
	return meeting
}

func TestBookingServiceCancelMeeting(t *testing.T) {
	b := newBookingSetup(t)
	b.putMeeting(t, models.MeetingStatusScheduled)

	want := &models.CancelMeetingResult{Success: true, MeetingDeleted: true, CalendarDeleted: true, Errors: []string{}}
	b.strategies.On("CreateStrategy", models.LocationTypeOutlookWithZoom).Return(b.strategy, nil)
	b.strategy.On("CancelMeeting", mock.Anything, mock.MatchedBy(func(m *models.Meeting) bool { return m.ID == "mtg-1" }), uint64(1)).
		Return(want, nil)
	b.publisher.On("PublishMeetingCancelled", mock.Anything, mock.Anything, want).Return(nil)

	result, err := b.service.CancelMeeting(context.Background(), "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, want, result)
	b.publisher.AssertExpectations(t)
}

func TestBookingServiceCancelMeetingEdgeCases(t *testing.T) {
	t.Run("missing meeting", func(t *testing.T) {
		b := newBookingSetup(t)
		_, err := b.service.CancelMeeting(context.Background(), "nope")
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("already cancelled", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putMeeting(t, models.MeetingStatusCancelled)

		result, err := b.service.CancelMeeting(context.Background(), "mtg-1")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.Errors)
		b.strategies.AssertNotCalled(t, "CreateStrategy", mock.Anything)
		b.publisher.AssertNotCalled(t, "PublishMeetingCancelled", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-owner", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putMeeting(t, models.MeetingStatusScheduled)

		_, err := b.service.CancelOwnMeeting(context.Background(), "mtg-1", "someone-else")
		assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	})

	t.Run("no strategy still cancels locally", func(t *testing.T) {
		b := newBookingSetup(t)
		ctx := context.Background()
		b.putMeeting(t, models.MeetingStatusScheduled)
		b.strategies.On("CreateStrategy", mock.Anything).
			Return(nil, domain.NewUnavailableError("meeting combination ZOOM_OUTLOOK_CALENDAR is not configured"))
		b.publisher.On("PublishMeetingCancelled", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		result, err := b.service.CancelOwnMeeting(ctx, "mtg-1", "owner-1")
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.Len(t, result.Errors, 1)

		stored, err := b.repos.Meetings.GetMeeting(ctx, "mtg-1")
		require.NoError(t, err)
		assert.True(t, stored.IsCancelled())
		require.NotNil(t, stored.CancelledAt)
		assert.Equal(t, testNow, *stored.CancelledAt)
	})

	t.Run("legacy meeting dispatches on event location type", func(t *testing.T) {
		b := newBookingSetup(t)
		b.putEvent(t, true)
		meeting := &models.Meeting{ID: "mtg-legacy", EventID: "evt-1", OwnerUserID: "owner-1", Status: models.MeetingStatusScheduled}
		require.NoError(t, b.repos.Meetings.CreateMeeting(context.Background(), meeting))

		b.strategies.On("CreateStrategy", models.LocationTypeOutlookWithZoom).Return(b.strategy, nil)
		b.strategy.On("CancelMeeting", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.CancelMeetingResult{Success: true, Errors: []string{}}, nil)
		b.publisher.On("PublishMeetingCancelled", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := b.service.CancelMeeting(context.Background(), "mtg-legacy")
		require.NoError(t, err)
		b.strategies.AssertExpectations(t)
	})
}

func TestBookingServiceGetMeeting(t *testing.T) {
	b := newBookingSetup(t)
	b.putMeeting(t, models.MeetingStatusScheduled)

	meeting, err := b.service.GetMeeting(context.Background(), "mtg-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "mtg-1", meeting.ID)

	_, err = b.service.GetMeeting(context.Background(), "mtg-1", "intruder")
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))

	_, err = b.service.GetMeeting(context.Background(), "missing", "owner-1")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestBookingServiceUpsertEvent(t *testing.T) {
	known := []models.LocationTypeInfo{{LocationType: models.LocationTypeOutlookWithZoom}}

	t.Run("create then update keeps created_at", func(t *testing.T) {
		b := newBookingSetup(t)
		ctx := context.Background()
		b.strategies.On("DescribeLocationTypes").Return(known)

		event := &models.Event{ID: "evt-9", OwnerUserID: "owner-1", Title: "Chat", LocationType: models.LocationTypeOutlookWithZoom}
		stored, err := b.service.UpsertEvent(ctx, event, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, testNow, stored.CreatedAt)

		later := testNow.Add(time.Hour)
		b.service.now = func() time.Time { return later }
		update := &models.Event{ID: "evt-9", OwnerUserID: "owner-1", Title: "Longer chat", LocationType: models.LocationTypeOutlookWithZoom}
		stored, err = b.service.UpsertEvent(ctx, update, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, testNow, stored.CreatedAt)
		assert.Equal(t, later, stored.UpdatedAt)
	})

	t.Run("unknown location type", func(t *testing.T) {
		b := newBookingSetup(t)
		b.strategies.On("DescribeLocationTypes").Return(known)

		event := &models.Event{ID: "evt-9", OwnerUserID: "owner-1", Title: "Chat", LocationType: "CARRIER_PIGEON"}
		_, err := b.service.UpsertEvent(context.Background(), event, "")
		assert.Equal(t, domain.ErrorTypeUnsupportedLocationType, domain.GetErrorType(err))
	})

	t.Run("other owner", func(t *testing.T) {
		b := newBookingSetup(t)
		b.strategies.On("DescribeLocationTypes").Return(known)
		b.putEvent(t, false)

		event := &models.Event{ID: "evt-1", OwnerUserID: "owner-2", Title: "Mine now", LocationType: models.LocationTypeOutlookWithZoom}
		_, err := b.service.UpsertEvent(context.Background(), event, "owner-2")
		assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	})

	t.Run("missing title", func(t *testing.T) {
		b := newBookingSetup(t)
		_, err := b.service.UpsertEvent(context.Background(), &models.Event{ID: "evt-1", OwnerUserID: "o", LocationType: models.LocationTypeZoomMeeting}, "")
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}
