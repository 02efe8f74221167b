// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// CreateMeetingRequest is a guest's booking of an Event slot. Times are
// ISO-8601; values without an offset are read in Timezone.
type CreateMeetingRequest struct {
	EventID        string `json:"event_id"`
	GuestName      string `json:"guest_name"`
	GuestEmail     string `json:"guest_email"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Timezone       string `json:"timezone"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// BookingRequest is a validated booking handed to a strategy.
type BookingRequest struct {
	Event          *Event
	GuestName      string
	GuestEmail     string
	StartTime      time.Time
	EndTime        time.Time
	Timezone       string
	AdditionalInfo string
}

// Topic is the session and calendar event title.
func (r *BookingRequest) Topic() string {
	return r.GuestName + " - " + r.Event.Title
}

// CreateMeetingResult is what a strategy returns after a successful create.
type CreateMeetingResult struct {
	MeetLink        string            `json:"meet_link"`
	Meeting         *Meeting          `json:"meeting"`
	CalendarEventID string            `json:"calendar_event_id"`
	ProviderID      string            `json:"provider_id,omitempty"`
	AdditionalData  map[string]string `json:"additional_data,omitempty"`
}

// BookingResult is the stable shape returned to callers of createMeeting.
type BookingResult struct {
	MeetLink string   `json:"meet_link"`
	Meeting  *Meeting `json:"meeting"`
}

// CancelMeetingRequest identifies the booking to cancel.
type CancelMeetingRequest struct {
	MeetingID string `json:"meeting_id"`
}

// CancelMeetingResult reports cancellation. Success means the booking is
// void; Errors lists provider cleanup that did not complete.
type CancelMeetingResult struct {
	Success         bool     `json:"success"`
	CalendarDeleted bool     `json:"calendar_deleted"`
	MeetingDeleted  bool     `json:"meeting_deleted"`
	Errors          []string `json:"errors"`
}

// ConnectIntegrationRequest stores tokens obtained by the OAuth callback.
type ConnectIntegrationRequest struct {
	UserID            string  `json:"user_id"`
	AppKind           AppKind `json:"app_kind"`
	AccessToken       string  `json:"access_token"`
	RefreshToken      string  `json:"refresh_token,omitempty"`
	ExpiryEpochMillis *int64  `json:"expiry_epoch_millis,omitempty"`
	CalendarID        string  `json:"calendar_id,omitempty"`
	ProviderUserID    string  `json:"provider_user_id,omitempty"`
}
