// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// INatsConn is the subset of a NATS connection the publisher needs.
type INatsConn interface {
	PublishMsg(m *nats.Msg) error
}

// MessageBuilder builds booking lifecycle messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
	now      func() time.Time
}

var _ domain.BookingEventPublisher = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
		now:      time.Now,
	}
}

// sendMessage sends the message to the NATS server with the trace context
// and request id carried in its headers.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	msg := nats.NewMsg(subject)
	msg.Data = data
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))
	if requestID, ok := ctx.Value(constants.RequestIDContextID).(string); ok {
		msg.Header.Set(constants.RequestIDHeader, requestID)
	}

	err := m.NatsConn.PublishMsg(msg)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// PublishMeetingScheduled announces a stored booking.
func (m *MessageBuilder) PublishMeetingScheduled(ctx context.Context, meeting *models.Meeting) error {
	dataBytes, err := json.Marshal(models.MeetingScheduledMessage{
		Meeting:     meeting,
		ScheduledAt: m.now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.MeetingScheduledSubject, dataBytes)
}

// PublishMeetingCancelled announces a cancelled booking with the outcome of
// the provider cleanup.
func (m *MessageBuilder) PublishMeetingCancelled(ctx context.Context, meeting *models.Meeting, result *models.CancelMeetingResult) error {
	message := models.MeetingCancelledMessage{
		Meeting:     meeting,
		CancelledAt: m.now().UTC(),
	}
	if meeting.CancelledAt != nil {
		message.CancelledAt = meeting.CancelledAt.UTC()
	}
	if result != nil {
		message.CalendarDeleted = result.CalendarDeleted
		message.MeetingDeleted = result.MeetingDeleted
		message.CleanupErrors = result.Errors
	}

	dataBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.MeetingCancelledSubject, dataBytes)
}
