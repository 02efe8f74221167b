// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// principalParser resolves the caller of an authenticated route.
type principalParser interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}

var _ principalParser = (*auth.JWTAuth)(nil)

// BookingAPI serves the HTTP routes of the booking service.
type BookingAPI struct {
	bookings     *service.BookingService
	integrations *service.IntegrationService
	auth         principalParser
	// ready reports readiness of dependencies outside the services, such as
	// the NATS connection. Nil means always ready.
	ready func() bool
}

// NewBookingAPI creates a new BookingAPI.
func NewBookingAPI(bookings *service.BookingService, integrations *service.IntegrationService, authenticator principalParser, ready func() bool) *BookingAPI {
	return &BookingAPI{
		bookings:     bookings,
		integrations: integrations,
		auth:         authenticator,
		ready:        ready,
	}
}

// request is what a route sees of an inbound call.
type request struct {
	vars    map[string]string
	decoder goahttp.Decoder
}

// routeFunc returns the status and body of a successful call.
type routeFunc func(ctx context.Context, req request) (int, any, error)

// httpStatus maps an error to the status code of its type.
func httpStatus(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation, domain.ErrorTypeUnsupportedLocationType:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeIntegrationMissing, domain.ErrorTypeTokenRefresh:
		return http.StatusPreconditionFailed
	case domain.ErrorTypeNotImplemented:
		return http.StatusNotImplemented
	case domain.ErrorTypeProviderOperation:
		return http.StatusBadGateway
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handler adapts fn to the mux, decoding with decoder and encoding the
// result or error with encoder.
func (a *BookingAPI) handler(
	fn routeFunc,
	vars func(*http.Request) map[string]string,
	decoder func(*http.Request) goahttp.Decoder,
	encoder func(context.Context, http.ResponseWriter) goahttp.Encoder,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status, body, err := fn(ctx, request{vars: vars(r), decoder: decoder(r)})
		if err != nil {
			status = httpStatus(err)
			body = service.NewErrorResponse(err)
			if status >= http.StatusInternalServerError {
				slog.ErrorContext(ctx, "request failed", logging.ErrKey, err, "status", status)
			} else {
				slog.DebugContext(ctx, "request rejected", logging.ErrKey, err, "status", status)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body == nil {
			return
		}
		if err := encoder(ctx, w).Encode(body); err != nil {
			slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
		}
	}
}

// decodeBody decodes the JSON request body into v.
func decodeBody(req request, v any) error {
	if err := req.decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("request body is required")
		}
		return domain.NewValidationError("malformed request body", err)
	}
	return nil
}

// principal validates the bearer token carried in ctx.
func (a *BookingAPI) principal(ctx context.Context) (string, error) {
	if a.auth == nil {
		return "", domain.NewUnavailableError("authentication is not set up")
	}
	token, _ := ctx.Value(constants.AuthorizationContextID).(string)
	principal, err := a.auth.ParsePrincipal(ctx, token, slog.Default())
	if err != nil {
		return "", err
	}
	if principal == "" {
		return "", domain.NewUnauthorizedError("token has no principal")
	}
	return principal, nil
}

// Readyz checks if the service is able to take inbound requests.
func (a *BookingAPI) Readyz(w http.ResponseWriter, _ *http.Request) {
	ready := a.bookings != nil && a.bookings.ServiceReady() &&
		a.integrations != nil && a.integrations.ServiceReady() &&
		(a.ready == nil || a.ready())
	if !ready {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (a *BookingAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	_, _ = w.Write([]byte("OK\n"))
}

// ListLocationTypes describes every bookable location type.
func (a *BookingAPI) ListLocationTypes(_ context.Context, _ request) (int, any, error) {
	return http.StatusOK, a.bookings.ListLocationTypes(), nil
}

// CreateBooking books a slot on a public event. No authentication: guests
// book anonymously.
func (a *BookingAPI) CreateBooking(ctx context.Context, req request) (int, any, error) {
	var payload models.CreateMeetingRequest
	if err := decodeBody(req, &payload); err != nil {
		return 0, nil, err
	}
	payload.EventID = req.vars["event_id"]

	result, err := a.bookings.CreateMeeting(ctx, &payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, result, nil
}

// GetMeeting returns a meeting to its owner.
func (a *BookingAPI) GetMeeting(ctx context.Context, req request) (int, any, error) {
	userID, err := a.principal(ctx)
	if err != nil {
		return 0, nil, err
	}
	meeting, err := a.bookings.GetMeeting(ctx, req.vars["meeting_id"], userID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, meeting, nil
}

// CancelMeeting cancels a meeting on behalf of its owner.
func (a *BookingAPI) CancelMeeting(ctx context.Context, req request) (int, any, error) {
	userID, err := a.principal(ctx)
	if err != nil {
		return 0, nil, err
	}
	result, err := a.bookings.CancelOwnMeeting(ctx, req.vars["meeting_id"], userID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, result, nil
}

// ListIntegrations reports the caller's connection status per app.
func (a *BookingAPI) ListIntegrations(ctx context.Context, _ request) (int, any, error) {
	userID, err := a.principal(ctx)
	if err != nil {
		return 0, nil, err
	}
	statuses, err := a.integrations.ListIntegrations(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, statuses, nil
}

// UpsertEvent creates or replaces one of the caller's events.
func (a *BookingAPI) UpsertEvent(ctx context.Context, req request) (int, any, error) {
	userID, err := a.principal(ctx)
	if err != nil {
		return 0, nil, err
	}
	var event models.Event
	if err := decodeBody(req, &event); err != nil {
		return 0, nil, err
	}
	event.ID = req.vars["event_id"]
	if event.OwnerUserID == "" {
		event.OwnerUserID = userID
	}

	stored, err := a.bookings.UpsertEvent(ctx, &event, userID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, stored, nil
}
