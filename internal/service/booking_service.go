// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/strategy"
)

// BookingService is the entry point for booking and cancelling meetings. It
// resolves the event, dispatches to the strategy for its location type and
// announces the outcome.
type BookingService struct {
	EventRepository   domain.EventRepository
	MeetingRepository domain.MeetingRepository
	Strategies        domain.StrategyFactory
	// Publisher is optional; lifecycle events are skipped when nil.
	Publisher domain.BookingEventPublisher
	Config    ServiceConfig

	now func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repos *domain.Repositories,
	strategies domain.StrategyFactory,
	publisher domain.BookingEventPublisher,
	config ServiceConfig,
) *BookingService {
	return &BookingService{
		EventRepository:   repos.Events,
		MeetingRepository: repos.Meetings,
		Strategies:        strategies,
		Publisher:         publisher,
		Config:            config.withDefaults(),
		now:               time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *BookingService) ServiceReady() bool {
	return s.EventRepository != nil &&
		s.MeetingRepository != nil &&
		s.Strategies != nil
}

func (s *BookingService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// CreateMeeting books a slot on a public event.
func (s *BookingService) CreateMeeting(ctx context.Context, req *models.CreateMeetingRequest) (*models.BookingResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("booking service is not ready")
	}

	input, err := validateCreateMeetingRequest(req, s.Config.MaxBookingDuration)
	if err != nil {
		slog.WarnContext(ctx, "invalid booking request", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.EventIDKey, req.EventID))

	event, err := s.EventRepository.GetPublicEvent(ctx, req.EventID)
	if err != nil {
		slog.WarnContext(ctx, "event not bookable", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.LocationTypeKey, string(event.LocationType)))

	meetingStrategy, err := s.Strategies.CreateStrategy(event.LocationType)
	if err != nil {
		slog.WarnContext(ctx, "no strategy for event location type", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.StrategyKey, meetingStrategy.StrategyName()))

	result, err := meetingStrategy.CreateMeeting(ctx, &models.BookingRequest{
		Event:          event,
		GuestName:      input.guestName,
		GuestEmail:     input.guestEmail,
		StartTime:      input.start,
		EndTime:        input.end,
		Timezone:       input.timezone,
		AdditionalInfo: input.additionalInfo,
	})
	if err != nil {
		slog.ErrorContext(ctx, "booking failed", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.MeetingIDKey, result.Meeting.ID))

	if s.Publisher != nil {
		if err := s.Publisher.PublishMeetingScheduled(ctx, result.Meeting); err != nil {
			slog.WarnContext(ctx, "failed to publish meeting scheduled event", logging.ErrKey, err)
		}
	}

	slog.InfoContext(ctx, "meeting booked", "reference", result.Meeting.Reference)
	return &models.BookingResult{MeetLink: result.MeetLink, Meeting: result.Meeting}, nil
}

// CancelMeeting voids a booking. It only fails when the meeting cannot be
// loaded or its status cannot be stored; provider cleanup failures are
// reported in the result.
func (s *BookingService) CancelMeeting(ctx context.Context, meetingID string) (*models.CancelMeetingResult, error) {
	return s.cancelMeeting(ctx, meetingID, "")
}

// CancelOwnMeeting cancels a booking on behalf of its owner. Anyone else
// gets Forbidden.
func (s *BookingService) CancelOwnMeeting(ctx context.Context, meetingID, userID string) (*models.CancelMeetingResult, error) {
	return s.cancelMeeting(ctx, meetingID, userID)
}

func (s *BookingService) cancelMeeting(ctx context.Context, meetingID, asUser string) (*models.CancelMeetingResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("booking service is not ready")
	}
	if meetingID == "" {
		return nil, domain.NewValidationError("meeting_id is required")
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.MeetingIDKey, meetingID))

	meeting, revision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, meetingID)
	if err != nil {
		slog.WarnContext(ctx, "meeting not found for cancellation", logging.ErrKey, err)
		return nil, err
	}
	if asUser != "" && meeting.OwnerUserID != asUser {
		slog.WarnContext(ctx, "cancellation by non-owner rejected", logging.UserIDKey, asUser)
		return nil, domain.NewForbiddenError("meeting belongs to another user")
	}
	if meeting.IsCancelled() {
		slog.DebugContext(ctx, "meeting already cancelled")
		return &models.CancelMeetingResult{Success: true, Errors: []string{}}, nil
	}

	locationType := s.locationTypeOf(ctx, meeting)
	ctx = logging.AppendCtx(ctx,
		slog.String(logging.EventIDKey, meeting.EventID),
		slog.String(logging.LocationTypeKey, string(locationType)),
	)

	var result *models.CancelMeetingResult
	meetingStrategy, err := s.Strategies.CreateStrategy(locationType)
	if err != nil {
		// The booking is void even when nothing can clean it up remotely.
		slog.ErrorContext(ctx, "no strategy to clean up meeting, cancelling locally",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		if markErr := strategy.MarkCancelled(ctx, s.MeetingRepository, meeting, revision, s.clock()); markErr != nil {
			return nil, markErr
		}
		result = &models.CancelMeetingResult{Success: true, Errors: []string{err.Error()}}
	} else {
		ctx = logging.AppendCtx(ctx, slog.String(logging.StrategyKey, meetingStrategy.StrategyName()))
		result, err = meetingStrategy.CancelMeeting(ctx, meeting, revision)
		if err != nil {
			slog.ErrorContext(ctx, "cancellation failed", logging.ErrKey, err)
			return nil, err
		}
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishMeetingCancelled(ctx, meeting, result); err != nil {
			slog.WarnContext(ctx, "failed to publish meeting cancelled event", logging.ErrKey, err)
		}
	}

	slog.InfoContext(ctx, "meeting cancelled", "cleanup_errors", len(result.Errors))
	return result, nil
}

// locationTypeOf returns the location type recorded on the meeting, falling
// back to its event for records written before it was stored.
func (s *BookingService) locationTypeOf(ctx context.Context, meeting *models.Meeting) models.LocationType {
	if meeting.LocationType != "" {
		return meeting.LocationType
	}
	event, err := s.EventRepository.GetEvent(ctx, meeting.EventID)
	if err != nil {
		slog.WarnContext(ctx, "event unavailable for location type fallback", logging.ErrKey, err)
		return ""
	}
	return event.LocationType
}

// GetMeeting returns a booking to its owner.
func (s *BookingService) GetMeeting(ctx context.Context, meetingID, userID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("booking service is not ready")
	}
	meeting, err := s.MeetingRepository.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerUserID != userID {
		slog.WarnContext(ctx, "meeting read by non-owner rejected",
			logging.MeetingIDKey, meetingID,
			logging.UserIDKey, userID,
		)
		return nil, domain.NewForbiddenError("meeting belongs to another user")
	}
	return meeting, nil
}

// ListLocationTypes describes every location type the service knows about.
func (s *BookingService) ListLocationTypes() []models.LocationTypeInfo {
	if s.Strategies == nil {
		return nil
	}
	return s.Strategies.DescribeLocationTypes()
}

// UpsertEvent creates or replaces a bookable event. When asUser is set the
// event must belong to that user, both before and after the write.
func (s *BookingService) UpsertEvent(ctx context.Context, event *models.Event, asUser string) (*models.Event, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("booking service is not ready")
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String(logging.EventIDKey, event.ID))

	if !s.isKnownLocationType(event.LocationType) {
		return nil, domain.NewUnsupportedLocationTypeError(string(event.LocationType))
	}

	now := s.clock()
	existing, err := s.EventRepository.GetEvent(ctx, event.ID)
	switch {
	case err == nil:
		if asUser != "" && existing.OwnerUserID != asUser {
			slog.WarnContext(ctx, "event update by non-owner rejected", logging.UserIDKey, asUser)
			return nil, domain.NewForbiddenError("event belongs to another user")
		}
		event.CreatedAt = existing.CreatedAt
	case domain.GetErrorType(err) == domain.ErrorTypeNotFound:
		event.CreatedAt = now
	default:
		return nil, err
	}
	if asUser != "" && event.OwnerUserID != asUser {
		return nil, domain.NewForbiddenError("events can only be created for yourself")
	}
	event.UpdatedAt = now

	if err := s.EventRepository.UpsertEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to store event", logging.ErrKey, err)
		return nil, err
	}
	slog.InfoContext(ctx, "event stored", logging.LocationTypeKey, string(event.LocationType))
	return event, nil
}

func (s *BookingService) isKnownLocationType(locationType models.LocationType) bool {
	for _, info := range s.Strategies.DescribeLocationTypes() {
		if info.LocationType == locationType {
			return true
		}
	}
	return false
}
