// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects the booking service listens on.
const (
	// CreateMeetingSubject books a meeting for an event.
	// The subject is of the form: lfx.booking.create_meeting
	CreateMeetingSubject = "lfx.booking.create_meeting"

	// CancelMeetingSubject cancels a booked meeting.
	// The subject is of the form: lfx.booking.cancel_meeting
	CancelMeetingSubject = "lfx.booking.cancel_meeting"

	// ConnectIntegrationSubject stores a user's OAuth tokens for an app.
	// The subject is of the form: lfx.booking.integration.connect
	ConnectIntegrationSubject = "lfx.booking.integration.connect"

	// UpsertEventSubject creates or replaces a bookable event.
	// The subject is of the form: lfx.booking.event.upsert
	UpsertEventSubject = "lfx.booking.event.upsert"
)

// NATS subjects the booking service publishes on.
const (
	// MeetingScheduledSubject is published after a booking is stored.
	MeetingScheduledSubject = "lfx.booking.meeting.scheduled"

	// MeetingCancelledSubject is published after a booking is cancelled.
	MeetingCancelledSubject = "lfx.booking.meeting.cancelled"
)

// MeetingScheduledMessage is the payload of MeetingScheduledSubject.
type MeetingScheduledMessage struct {
	Meeting     *Meeting  `json:"meeting"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// MeetingCancelledMessage is the payload of MeetingCancelledSubject.
type MeetingCancelledMessage struct {
	Meeting         *Meeting  `json:"meeting"`
	CalendarDeleted bool      `json:"calendar_deleted"`
	MeetingDeleted  bool      `json:"meeting_deleted"`
	CleanupErrors   []string  `json:"cleanup_errors,omitempty"`
	CancelledAt     time.Time `json:"cancelled_at"`
}

// ErrorResponse is the reply envelope for failed NATS requests.
type ErrorResponse struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
