// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

// ConferenceSolutionHangoutsMeet is the conference type for Google Meet.
const ConferenceSolutionHangoutsMeet = "hangoutsMeet"

// EntryPointVideo is the conference entry point guests join through.
const EntryPointVideo = "video"

// Event is a Google Calendar event resource
type Event struct {
	ID             string          `json:"id,omitempty"`
	Status         string          `json:"status,omitempty"`
	HTMLLink       string          `json:"htmlLink,omitempty"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description,omitempty"`
	Location       string          `json:"location,omitempty"`
	Start          *EventDateTime  `json:"start"`
	End            *EventDateTime  `json:"end"`
	Attendees      []EventAttendee `json:"attendees,omitempty"`
	HangoutLink    string          `json:"hangoutLink,omitempty"`
	ConferenceData *ConferenceData `json:"conferenceData,omitempty"`
}

// EventDateTime is an RFC 3339 time with its IANA zone
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventAttendee is an invitee of an event
type EventAttendee struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// ConferenceData requests or describes the conference attached to an event
type ConferenceData struct {
	ConferenceID  string                   `json:"conferenceId,omitempty"`
	CreateRequest *CreateConferenceRequest `json:"createRequest,omitempty"`
	EntryPoints   []EntryPoint             `json:"entryPoints,omitempty"`
}

// CreateConferenceRequest asks Google to generate a conference
type CreateConferenceRequest struct {
	// RequestID makes the generation idempotent per event.
	RequestID             string                `json:"requestId"`
	ConferenceSolutionKey ConferenceSolutionKey `json:"conferenceSolutionKey"`
}

// ConferenceSolutionKey selects the conferencing product
type ConferenceSolutionKey struct {
	Type string `json:"type"`
}

// EntryPoint is one way of joining a conference
type EntryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
	Label          string `json:"label,omitempty"`
}

// JoinURL returns the video link of the event's conference, if any.
func (e *Event) JoinURL() string {
	if e.HangoutLink != "" {
		return e.HangoutLink
	}
	if e.ConferenceData == nil {
		return ""
	}
	for _, ep := range e.ConferenceData.EntryPoints {
		if ep.EntryPointType == EntryPointVideo {
			return ep.URI
		}
	}
	return ""
}

// CalendarListEntry is a calendar as it appears in the user's calendar list
type CalendarListEntry struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	TimeZone   string `json:"timeZone,omitempty"`
	Primary    bool   `json:"primary,omitempty"`
	AccessRole string `json:"accessRole,omitempty"`
}
