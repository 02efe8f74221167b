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

// PairedStrategy books a session on one provider and tracks it on a
// calendar owned by another, e.g. Zoom with Outlook Calendar.
type PairedStrategy struct {
	config           models.CombinationConfig
	meetingProvider  domain.MeetingProvider
	calendarProvider domain.CalendarProvider
	meetingKind      models.AppKind
	calendarKind     models.AppKind
	deps             Dependencies
}

var _ domain.MeetingStrategy = (*PairedStrategy)(nil)

// NewPairedStrategy checks that the providers are the ones cfg names.
func NewPairedStrategy(cfg models.CombinationConfig, meetingProvider domain.MeetingProvider, calendarProvider domain.CalendarProvider, deps Dependencies) (*PairedStrategy, error) {
	if meetingProvider.Name() != cfg.MeetingProvider {
		return nil, fmt.Errorf("combination %s expects meeting provider %s, got %s", cfg.Combination, cfg.MeetingProvider, meetingProvider.Name())
	}
	if calendarProvider.Name() != cfg.CalendarProvider {
		return nil, fmt.Errorf("combination %s expects calendar provider %s, got %s", cfg.Combination, cfg.CalendarProvider, calendarProvider.Name())
	}
	meetingKind, ok := models.AppKindForProvider(cfg.MeetingProvider)
	if !ok {
		return nil, fmt.Errorf("no integration authorizes provider %s", cfg.MeetingProvider)
	}
	calendarKind, ok := models.AppKindForProvider(cfg.CalendarProvider)
	if !ok {
		return nil, fmt.Errorf("no integration authorizes provider %s", cfg.CalendarProvider)
	}

	return &PairedStrategy{
		config:           cfg,
		meetingProvider:  meetingProvider,
		calendarProvider: calendarProvider,
		meetingKind:      meetingKind,
		calendarKind:     calendarKind,
		deps:             deps,
	}, nil
}

// StrategyName returns "<meeting provider>+<calendar provider>".
func (s *PairedStrategy) StrategyName() string {
	return s.config.StrategyName()
}

// Combination returns the combination the strategy serves.
func (s *PairedStrategy) Combination() models.MeetingCombination {
	return s.config.Combination
}

// CreateMeeting creates the session, then the calendar event carrying its
// join link, then stores the meeting. The first failure aborts the booking.
func (s *PairedStrategy) CreateMeeting(ctx context.Context, req *models.BookingRequest) (result *models.CreateMeetingResult, err error) {
	ctx, span := startSpan(ctx, "create_meeting", s.config)
	defer func() { endSpan(span, err) }()
	ctx = logging.AppendCtx(ctx, slog.String(logging.StrategyKey, s.StrategyName()))

	owner := req.Event.OwnerUserID
	integrations, err := loadIntegrations(ctx, s.deps.Tokens, owner, s.config.RequiredIntegrations)
	if err != nil {
		return nil, err
	}
	meetingIntegration, err := integrationFor(ctx, s.deps.Tokens, integrations, owner, s.meetingKind)
	if err != nil {
		return nil, err
	}
	calendarIntegration, err := integrationFor(ctx, s.deps.Tokens, integrations, owner, s.calendarKind)
	if err != nil {
		return nil, err
	}

	meetingToken, err := s.deps.Tokens.ValidToken(ctx, meetingIntegration, s.meetingProvider)
	if err != nil {
		return nil, err
	}
	calendarToken, err := s.deps.Tokens.ValidToken(ctx, calendarIntegration, s.calendarProvider)
	if err != nil {
		return nil, err
	}

	description := bookingDescription(req)
	attendees := guestAttendees(req)

	info, err := s.meetingProvider.CreateMeeting(ctx, models.MeetingConfig{
		Topic:       req.Topic(),
		Description: description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
		Attendees:   attendees,
		Settings:    s.config.DefaultSettings,
	}, meetingToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create remote meeting", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_provider_id", info.ID))

	calendarID := createCalendarID(req.Event, calendarIntegration)
	calendarEventID, err := s.calendarProvider.CreateEvent(ctx, calendarID, models.CalendarEvent{
		Title:       req.Topic(),
		Description: description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
		Attendees:   attendees,
		MeetingURL:  info.JoinURL,
	}, calendarToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create calendar event, remote meeting left orphaned",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, err
	}

	meeting := newMeeting(req, s.deps.now())
	meeting.MeetLink = info.JoinURL
	meeting.MeetingProviderID = info.ID
	meeting.CalendarEventID = calendarEventID
	meeting.CalendarAppType = s.calendarKind
	meeting.CalendarID = calendarID

	if err := s.deps.Meetings.CreateMeeting(ctx, meeting); err != nil {
		slog.ErrorContext(ctx, "failed to store meeting, remote artifacts left orphaned",
			"calendar_event_id", calendarEventID,
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, err
	}

	slog.InfoContext(ctx, "meeting created", logging.MeetingIDKey, meeting.ID, "calendar_event_id", calendarEventID)

	additional := map[string]string{}
	if info.Passcode != "" {
		additional["passcode"] = info.Passcode
	}
	if info.StartURL != "" {
		additional["start_url"] = info.StartURL
	}

	return &models.CreateMeetingResult{
		MeetLink:        info.JoinURL,
		Meeting:         meeting,
		CalendarEventID: calendarEventID,
		ProviderID:      info.ID,
		AdditionalData:  additional,
	}, nil
}

// CancelMeeting deletes the session and the calendar event independently
// and marks the meeting CANCELLED whatever the outcome of either deletion.
func (s *PairedStrategy) CancelMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) (result *models.CancelMeetingResult, err error) {
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

	var (
		meetingToken        models.TokenConfig
		meetingReady        bool
		calendarToken       models.TokenConfig
		calendarIntegration *models.Integration
		calendarReady       bool
	)

	if integration, err := s.deps.Tokens.Integration(ctx, owner, s.meetingKind); err != nil {
		result.Errors = append(result.Errors, cleanupError("meeting", s.meetingProvider.Name(), err))
	} else if token, err := s.deps.Tokens.ValidToken(ctx, integration, s.meetingProvider); err != nil {
		result.Errors = append(result.Errors, cleanupError("meeting", s.meetingProvider.Name(), err))
	} else {
		meetingToken, meetingReady = token, true
	}

	if integration, err := s.deps.Tokens.Integration(ctx, owner, s.calendarKind); err != nil {
		result.Errors = append(result.Errors, cleanupError("calendar", s.calendarProvider.Name(), err))
	} else if token, err := s.deps.Tokens.ValidToken(ctx, integration, s.calendarProvider); err != nil {
		calendarIntegration = integration
		result.Errors = append(result.Errors, cleanupError("calendar", s.calendarProvider.Name(), err))
	} else {
		calendarIntegration = integration
		calendarToken, calendarReady = token, true
	}

	calendarID := cancelCalendarID(ctx, s.deps.Events, meeting, calendarIntegration)

	deleteMeeting := func() error {
		if !meetingReady {
			return nil
		}
		if meeting.MeetingProviderID == "" {
			result.MeetingDeleted = true
			return nil
		}
		if err := s.meetingProvider.DeleteMeeting(ctx, meeting.MeetingProviderID, meetingToken, owner); err != nil {
			return err
		}
		result.MeetingDeleted = true
		return nil
	}
	deleteEvent := func() error {
		if !calendarReady {
			return nil
		}
		if meeting.CalendarEventID == "" {
			result.CalendarDeleted = true
			return nil
		}
		if err := s.calendarProvider.DeleteEvent(ctx, calendarID, meeting.CalendarEventID, calendarToken); err != nil {
			return err
		}
		result.CalendarDeleted = true
		return nil
	}

	// The two deletions write disjoint fields of result.
	outcomes := s.deps.pool().RunAll(ctx, deleteMeeting, deleteEvent)
	if outcomes[0] != nil {
		slog.WarnContext(ctx, "remote meeting cleanup failed", logging.ErrKey, outcomes[0])
		result.Errors = append(result.Errors, cleanupError("meeting", s.meetingProvider.Name(), outcomes[0]))
	}
	if outcomes[1] != nil {
		slog.WarnContext(ctx, "calendar event cleanup failed", logging.ErrKey, outcomes[1], "calendar_id", calendarID)
		result.Errors = append(result.Errors, cleanupError("calendar", s.calendarProvider.Name(), outcomes[1]))
	}

	if err := MarkCancelled(ctx, s.deps.Meetings, meeting, revision, s.deps.now()); err != nil {
		slog.ErrorContext(ctx, "failed to mark meeting cancelled", logging.ErrKey, err)
		return nil, err
	}

	result.Success = true
	slog.InfoContext(ctx, "meeting cancelled",
		"meeting_deleted", result.MeetingDeleted,
		"calendar_deleted", result.CalendarDeleted,
		"cleanup_errors", len(result.Errors),
	)
	return result, nil
}
