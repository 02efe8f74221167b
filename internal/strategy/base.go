// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/utils"
)

const tracerName = "github.com/linuxfoundation/lfx-v2-booking-service/internal/strategy"

// Dependencies are the collaborators shared by every strategy.
type Dependencies struct {
	Events   domain.EventRepository
	Meetings domain.MeetingRepository
	Tokens   *TokenResolver
	// Pool runs the independent cancel-time deletions.
	Pool *concurrent.WorkerPool
	Now  func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

func (d Dependencies) pool() *concurrent.WorkerPool {
	if d.Pool == nil {
		return concurrent.NewWorkerPool(2)
	}
	return d.Pool
}

func startSpan(ctx context.Context, operation string, cfg models.CombinationConfig) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "strategy."+operation,
		trace.WithAttributes(
			attribute.String("booking.combination", string(cfg.Combination)),
			attribute.String("booking.strategy", cfg.StrategyName()),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// loadIntegrations fetches every integration the combination requires so a
// missing one is reported before any provider is called.
func loadIntegrations(ctx context.Context, tokens *TokenResolver, userID string, kinds []models.AppKind) (map[models.AppKind]*models.Integration, error) {
	out := make(map[models.AppKind]*models.Integration, len(kinds))
	for _, kind := range kinds {
		integration, err := tokens.Integration(ctx, userID, kind)
		if err != nil {
			slog.WarnContext(ctx, "required integration unavailable", "app_kind", kind, logging.ErrKey, err)
			return nil, err
		}
		out[kind] = integration
	}
	return out, nil
}

// integrationFor returns the loaded integration for kind, fetching it when
// the combination did not list it as required.
func integrationFor(ctx context.Context, tokens *TokenResolver, loaded map[models.AppKind]*models.Integration, userID string, kind models.AppKind) (*models.Integration, error) {
	if integration, ok := loaded[kind]; ok {
		return integration, nil
	}
	return tokens.Integration(ctx, userID, kind)
}

// createCalendarID picks the calendar a new event is written to.
func createCalendarID(event *models.Event, integration *models.Integration) string {
	var integrationCalendar string
	if integration != nil {
		integrationCalendar = integration.CalendarID
	}
	return utils.CoalesceString(
		strings.TrimSpace(event.CalendarID),
		strings.TrimSpace(integrationCalendar),
		constants.DefaultCalendarID,
	)
}

// cancelCalendarID picks the calendar an event is deleted from: the one
// recorded on the meeting, then the event's, then the integration's.
func cancelCalendarID(ctx context.Context, events domain.EventRepository, meeting *models.Meeting, integration *models.Integration) string {
	if id := strings.TrimSpace(meeting.CalendarID); id != "" {
		return id
	}

	var eventCalendar string
	if events != nil && meeting.EventID != "" {
		event, err := events.GetEvent(ctx, meeting.EventID)
		if err != nil {
			slog.DebugContext(ctx, "event unavailable for calendar fallback", logging.ErrKey, err)
		} else {
			eventCalendar = event.CalendarID
		}
	}

	var integrationCalendar string
	if integration != nil {
		integrationCalendar = integration.CalendarID
	}
	return utils.CoalesceString(
		strings.TrimSpace(eventCalendar),
		strings.TrimSpace(integrationCalendar),
		constants.DefaultCalendarID,
	)
}

func guestAttendees(req *models.BookingRequest) []models.Attendee {
	return []models.Attendee{{Name: req.GuestName, Email: req.GuestEmail}}
}

// bookingDescription is the text shown on the session and calendar invite.
func bookingDescription(req *models.BookingRequest) string {
	parts := make([]string, 0, 3)
	if d := strings.TrimSpace(req.Event.Description); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, fmt.Sprintf("Booked by %s (%s)", req.GuestName, req.GuestEmail))
	if info := strings.TrimSpace(req.AdditionalInfo); info != "" {
		parts = append(parts, "Additional information: "+info)
	}
	return strings.Join(parts, "\n\n")
}

// newMeeting builds the SCHEDULED record for a booking whose remote
// artifacts already exist.
func newMeeting(req *models.BookingRequest, now time.Time) *models.Meeting {
	id, reference := models.NewMeetingID()
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return &models.Meeting{
		ID:             id,
		Reference:      reference,
		EventID:        req.Event.ID,
		OwnerUserID:    req.Event.OwnerUserID,
		Title:          req.Topic(),
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		AdditionalInfo: req.AdditionalInfo,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		Timezone:       timezone,
		LocationType:   req.Event.LocationType,
		Status:         models.MeetingStatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkCancelled persists the CANCELLED status. A revision conflict re-reads
// the record: a concurrent cancel counts as success, any other concurrent
// write is retried once on the new revision.
func MarkCancelled(ctx context.Context, meetings domain.MeetingRepository, meeting *models.Meeting, revision uint64, now time.Time) error {
	apply := func(m *models.Meeting) {
		m.Status = models.MeetingStatusCancelled
		m.UpdatedAt = now
		cancelledAt := now
		m.CancelledAt = &cancelledAt
	}

	apply(meeting)
	err := meetings.UpdateMeeting(ctx, meeting, revision)
	if err == nil || domain.GetErrorType(err) != domain.ErrorTypeConflict {
		return err
	}

	current, currentRevision, getErr := meetings.GetMeetingWithRevision(ctx, meeting.ID)
	if getErr != nil {
		return getErr
	}
	if current.IsCancelled() {
		slog.InfoContext(ctx, "meeting was cancelled concurrently")
		*meeting = *current
		return nil
	}

	apply(current)
	if err := meetings.UpdateMeeting(ctx, current, currentRevision); err != nil {
		return err
	}
	*meeting = *current
	return nil
}

// cleanupError formats a failed cancel-time deletion for the result.
func cleanupError(side, provider string, err error) string {
	return fmt.Sprintf("%s provider %s: %v", side, provider, err)
}

func alreadyCancelled() *models.CancelMeetingResult {
	return &models.CancelMeetingResult{Success: true, Errors: []string{}}
}
