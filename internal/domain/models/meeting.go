// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"

	"github.com/akamensky/base58"
	"github.com/google/uuid"
)

// MeetingStatus is the lifecycle state of a booking.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "SCHEDULED"
	MeetingStatusCancelled MeetingStatus = "CANCELLED"
)

// Meeting is the durable booking record. CalendarEventID and
// MeetingProviderID are kept after cancellation.
type Meeting struct {
	ID                string        `json:"id"`
	Reference         string        `json:"reference"`
	EventID           string        `json:"event_id"`
	OwnerUserID       string        `json:"owner_user_id"`
	Title             string        `json:"title"`
	GuestName         string        `json:"guest_name"`
	GuestEmail        string        `json:"guest_email"`
	AdditionalInfo    string        `json:"additional_info,omitempty"`
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	Timezone          string        `json:"timezone"`
	LocationType      LocationType  `json:"location_type"`
	MeetLink          string        `json:"meet_link"`
	CalendarEventID   string        `json:"calendar_event_id"`
	CalendarAppType   AppKind       `json:"calendar_app_type"`
	CalendarID        string        `json:"calendar_id"`
	MeetingProviderID string        `json:"meeting_provider_id,omitempty"`
	Status            MeetingStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	CancelledAt       *time.Time    `json:"cancelled_at,omitempty"`
}

// IsCancelled reports whether the booking is void.
func (m *Meeting) IsCancelled() bool {
	return m.Status == MeetingStatusCancelled
}

// NewMeetingID returns a fresh meeting id and its short booking reference.
func NewMeetingID() (id string, reference string) {
	u := uuid.New()
	return u.String(), BookingReference(u)
}

// BookingReference encodes the leading half of the uuid as base58 for
// display in confirmations.
func BookingReference(u uuid.UUID) string {
	return base58.Encode(u[:8])
}
