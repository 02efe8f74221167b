// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// BookingHandler serves the booking request/reply subjects.
type BookingHandler struct {
	Bookings     *BookingService
	Integrations *IntegrationService
}

var _ domain.MessageHandler = (*BookingHandler)(nil)

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *BookingService, integrations *IntegrationService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Integrations: integrations}
}

// HandlerReady reports whether both services can take requests.
func (h *BookingHandler) HandlerReady() bool {
	return h.Bookings != nil && h.Bookings.ServiceReady() &&
		h.Integrations != nil && h.Integrations.ServiceReady()
}

// Subjects lists the subjects HandleMessage serves.
func (h *BookingHandler) Subjects() []string {
	return []string{
		models.CreateMeetingSubject,
		models.CancelMeetingSubject,
		models.ConnectIntegrationSubject,
		models.UpsertEventSubject,
	}
}

// HandleMessage implements domain.MessageHandler interface
func (h *BookingHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.CreateMeetingSubject:      h.HandleCreateMeeting,
		models.CancelMeetingSubject:      h.HandleCancelMeeting,
		models.ConnectIntegrationSubject: h.HandleConnectIntegration,
		models.UpsertEventSubject:        h.HandleUpsertEvent,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		if err := msg.Respond(nil); err != nil {
			slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		}
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		response = errorResponse(err)
	}

	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}

	slog.DebugContext(ctx, "responded to NATS message")
}

// NewErrorResponse builds the error envelope clients switch on. Only the
// top-level message is exposed; wrapped causes stay in the logs.
func NewErrorResponse(err error) models.ErrorResponse {
	envelope := models.ErrorResponse{
		Type:    domain.GetErrorType(err).String(),
		Message: err.Error(),
		Details: domain.GetErrorDetails(err),
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		envelope.Message = domainErr.Message
	}
	return envelope
}

func errorResponse(err error) []byte {
	data, marshalErr := json.Marshal(NewErrorResponse(err))
	if marshalErr != nil {
		return []byte(`{"type":"internal","message":"internal error"}`)
	}
	return data
}

func decode(msg domain.Message, v any) error {
	if err := json.Unmarshal(msg.Data(), v); err != nil {
		return domain.NewValidationError("malformed request payload", err)
	}
	return nil
}

// HandleCreateMeeting is the message handler for the create-meeting subject.
func (h *BookingHandler) HandleCreateMeeting(ctx context.Context, msg domain.Message) ([]byte, error) {
	var req models.CreateMeetingRequest
	if err := decode(msg, &req); err != nil {
		return nil, err
	}
	result, err := h.Bookings.CreateMeeting(ctx, &req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// HandleCancelMeeting is the message handler for the cancel-meeting subject.
func (h *BookingHandler) HandleCancelMeeting(ctx context.Context, msg domain.Message) ([]byte, error) {
	var req models.CancelMeetingRequest
	if err := decode(msg, &req); err != nil {
		return nil, err
	}
	result, err := h.Bookings.CancelMeeting(ctx, req.MeetingID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// HandleConnectIntegration is the message handler for the
// integration-connect subject. Tokens are never echoed back.
func (h *BookingHandler) HandleConnectIntegration(ctx context.Context, msg domain.Message) ([]byte, error) {
	var req models.ConnectIntegrationRequest
	if err := decode(msg, &req); err != nil {
		return nil, err
	}
	integration, err := h.Integrations.ConnectIntegration(ctx, &req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.IntegrationStatus{
		AppKind:    integration.AppKind,
		Connected:  integration.IsConnected,
		CalendarID: integration.CalendarID,
	})
}

// HandleUpsertEvent is the message handler for the event-upsert subject.
func (h *BookingHandler) HandleUpsertEvent(ctx context.Context, msg domain.Message) ([]byte, error) {
	var event models.Event
	if err := decode(msg, &event); err != nil {
		return nil, err
	}
	stored, err := h.Bookings.UpsertEvent(ctx, &event, "")
	if err != nil {
		return nil, err
	}
	return json.Marshal(stored)
}
