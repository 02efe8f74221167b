// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

// DateTimeLayout is the Graph dateTime format; the zone travels separately.
const DateTimeLayout = "2006-01-02T15:04:05"

// Content types of an event body
const (
	BodyContentTypeText = "text"
	BodyContentTypeHTML = "html"
)

// AttendeeTypeRequired marks an attendee as required
const AttendeeTypeRequired = "required"

// Event is a Graph event resource
type Event struct {
	ID        string          `json:"id,omitempty"`
	WebLink   string          `json:"webLink,omitempty"`
	Subject   string          `json:"subject"`
	Body      *ItemBody       `json:"body,omitempty"`
	Start     *DateTimeZone   `json:"start"`
	End       *DateTimeZone   `json:"end"`
	Location  *Location       `json:"location,omitempty"`
	Attendees []Attendee      `json:"attendees,omitempty"`
	IsOnline  bool            `json:"isOnlineMeeting"`
	Online    *OnlineMeetInfo `json:"onlineMeeting,omitempty"`
}

// ItemBody is the content of an event
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// DateTimeZone is a wall-clock time and the zone it is in
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location is where an event takes place
type Location struct {
	DisplayName string `json:"displayName"`
	LocationURI string `json:"locationUri,omitempty"`
}

// Attendee is an event invitee
type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type"`
}

// EmailAddress is a named mailbox
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// OnlineMeetInfo is the join information of an online meeting
type OnlineMeetInfo struct {
	JoinURL string `json:"joinUrl,omitempty"`
}

// Calendar is a Graph calendar resource
type Calendar struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	IsDefaultCalendar bool          `json:"isDefaultCalendar"`
	CanEdit           bool          `json:"canEdit"`
	Owner             *EmailAddress `json:"owner,omitempty"`
}
