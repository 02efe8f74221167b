// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Attendee is a calendar invitee.
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// MeetingConfig is the input to a Meeting Provider create call.
type MeetingConfig struct {
	Topic       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string
	Attendees   []Attendee
	Settings    MeetingSettings
	// CalendarID is only read by providers whose sessions live on a calendar.
	CalendarID string
}

// DurationMinutes is the session length rounded up to whole minutes.
func (c MeetingConfig) DurationMinutes() int {
	d := c.EndTime.Sub(c.StartTime)
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// MeetingInfo is a created remote session.
type MeetingInfo struct {
	ID       string `json:"id"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url,omitempty"`
	Passcode string `json:"passcode,omitempty"`
}

// CalendarEvent is the input to a Calendar Provider create call.
type CalendarEvent struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string
	Attendees   []Attendee
	// MeetingURL is embedded in the event body so guests can join from the invite.
	MeetingURL string
}

// CalendarInfo describes a provider calendar.
type CalendarInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Primary  bool   `json:"primary"`
	Timezone string `json:"timezone,omitempty"`
}
