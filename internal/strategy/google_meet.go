// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// CombinedProvider creates sessions that are themselves calendar events.
type CombinedProvider interface {
	domain.MeetingProvider
	domain.CalendarProvider
}

// GoogleMeetStrategy books Google Meet sessions. The session and the
// calendar event are one remote object, so create and cancel each make a
// single provider call.
type GoogleMeetStrategy struct {
	config   models.CombinationConfig
	provider CombinedProvider
	kind     models.AppKind
	deps     Dependencies
}

var _ domain.MeetingStrategy = (*GoogleMeetStrategy)(nil)

// NewGoogleMeetStrategy checks that provider is the one cfg names.
func NewGoogleMeetStrategy(cfg models.CombinationConfig, provider CombinedProvider, deps Dependencies) (*GoogleMeetStrategy, error) {
	if provider.Name() != cfg.MeetingProvider {
		return nil, fmt.Errorf("combination %s expects meeting provider %s, got %s", cfg.Combination, cfg.MeetingProvider, provider.Name())
	}
	kind, ok := models.AppKindForProvider(cfg.MeetingProvider)
	if !ok {
		return nil, fmt.Errorf("no integration authorizes provider %s", cfg.MeetingProvider)
	}
	return &GoogleMeetStrategy{config: cfg, provider: provider, kind: kind, deps: deps}, nil
}

// StrategyName returns "<meeting provider>+<calendar provider>".
func (s *GoogleMeetStrategy) StrategyName() string {
	return s.config.StrategyName()
}

// Combination returns the combination the strategy serves.
func (s *GoogleMeetStrategy) Combination() models.MeetingCombination {
	return s.config.Combination
}

// CreateMeeting inserts a calendar event with a generated Meet conference
// and stores the meeting.
func (s *GoogleMeetStrategy) CreateMeeting(ctx context.Context, req *models.BookingRequest) (result *models.CreateMeetingResult, err error) {
	ctx, span := startSpan(ctx, "create_meeting", s.config)
	defer func() { endSpan(span, err) }()
	ctx = logging.AppendCtx(ctx, slog.String(logging.StrategyKey, s.StrategyName()))

	owner := req.Event.OwnerUserID
	integrations, err := loadIntegrations(ctx, s.deps.Tokens, owner, s.config.RequiredIntegrations)
	if err != nil {
		return nil, err
	}
	integration, err := integrationFor(ctx, s.deps.Tokens, integrations, owner, s.kind)
	if err != nil {
		return nil, err
	}
	token, err := s.deps.Tokens.ValidToken(ctx, integration, s.provider)
	if err != nil {
		return nil, err
	}

	calendarID := createCalendarID(req.Event, integration)
	info, err := s.provider.CreateMeeting(ctx, models.MeetingConfig{
		Topic:       req.Topic(),
		Description: bookingDescription(req),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
		Attendees:   guestAttendees(req),
		Settings:    s.config.DefaultSettings,
		CalendarID:  calendarID,
	}, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Google Meet event", logging.ErrKey, err)
		return nil, err
	}

	meeting := newMeeting(req, s.deps.now())
	meeting.MeetLink = info.JoinURL
	meeting.MeetingProviderID = info.ID
	meeting.CalendarEventID = info.ID
	meeting.CalendarAppType = s.kind
	meeting.CalendarID = calendarID

	if err := s.deps.Meetings.CreateMeeting(ctx, meeting); err != nil {
		slog.ErrorContext(ctx, "failed to store meeting, calendar event left orphaned",
			"calendar_event_id", info.ID,
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, err
	}

	slog.InfoContext(ctx, "meeting created", logging.MeetingIDKey, meeting.ID, "calendar_event_id", info.ID)
	return &models.CreateMeetingResult{
		MeetLink:        info.JoinURL,
		Meeting:         meeting,
		CalendarEventID: info.ID,
		ProviderID:      info.ID,
		AdditionalData:  map[string]string{"conference_solution": "hangoutsMeet"},
	}, nil
}

// CancelMeeting deletes the calendar event, which also ends the Meet
// session, and marks the meeting CANCELLED whatever the outcome.
func (s *GoogleMeetStrategy) CancelMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) (result *models.CancelMeetingResult, err error) {
	if meeting.IsCancelled() {
		return alreadyCancelled(), nil
	}

	ctx, span := startSpan(ctx, "cancel_meeting", s.config)
	defer func() { endSpan(span, err) }()
	ctx = logging.AppendCtx(ctx,
		slog.String(logging.StrategyKey, s.StrategyName()),
		slog.String(logging.MeetingIDKey, meeting.ID),
	)

	owner := meeting.OwnerUserID
	result = &models.CancelMeetingResult{Errors: []string{}}

	integration, err := s.deps.Tokens.Integration(ctx, owner, s.kind)
	if err != nil {
		result.Errors = append(result.Errors, cleanupError("calendar", s.provider.Name(), err))
	} else {
		calendarID := cancelCalendarID(ctx, s.deps.Events, meeting, integration)
		token, err := s.deps.Tokens.ValidToken(ctx, integration, s.provider)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, cleanupError("calendar", s.provider.Name(), err))
		case meeting.CalendarEventID == "":
			result.CalendarDeleted, result.MeetingDeleted = true, true
		default:
			if err := s.provider.DeleteEvent(ctx, calendarID, meeting.CalendarEventID, token); err != nil {
				slog.WarnContext(ctx, "Google Meet event cleanup failed", logging.ErrKey, err, "calendar_id", calendarID)
				result.Errors = append(result.Errors, cleanupError("calendar", s.provider.Name(), err))
			} else {
				result.CalendarDeleted, result.MeetingDeleted = true, true
			}
		}
	}

	if err := MarkCancelled(ctx, s.deps.Meetings, meeting, revision, s.deps.now()); err != nil {
		slog.ErrorContext(ctx, "failed to mark meeting cancelled", logging.ErrKey, err)
		return nil, err
	}

	result.Success = true
	slog.InfoContext(ctx, "meeting cancelled", "calendar_deleted", result.CalendarDeleted, "cleanup_errors", len(result.Errors))
	return result, nil
}
