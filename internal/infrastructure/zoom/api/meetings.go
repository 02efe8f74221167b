// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Meeting type constants for Zoom API
const (
	MeetingTypeInstant   = 1
	MeetingTypeScheduled = 2
)

// StartTimeLayout is the UTC layout Zoom accepts for start_time.
const StartTimeLayout = "2006-01-02T15:04:05Z"

// CreateMeetingRequest represents the request to create a Zoom meeting
type CreateMeetingRequest struct {
	Topic     string           `json:"topic"`
	Type      int              `json:"type"`
	StartTime string           `json:"start_time,omitempty"`
	Duration  int              `json:"duration,omitempty"`
	Timezone  string           `json:"timezone,omitempty"`
	Agenda    string           `json:"agenda,omitempty"`
	Password  string           `json:"password,omitempty"`
	Settings  *MeetingSettings `json:"settings,omitempty"`
}

// MeetingSettings represents Zoom meeting settings
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	Audio            string `json:"audio"`
	AutoRecording    string `json:"auto_recording"`
	// MeetingInvitees adds the guest to the Zoom invitation list.
	MeetingInvitees []Invitee `json:"meeting_invitees,omitempty"`
}

// Invitee is an entry of settings.meeting_invitees
type Invitee struct {
	Email string `json:"email"`
}

// CreateMeetingResponse represents the response from creating a Zoom meeting
type CreateMeetingResponse struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	HostID    string `json:"host_id"`
	HostEmail string `json:"host_email"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
	StartURL  string `json:"start_url"`
	JoinURL   string `json:"join_url"`
	Password  string `json:"password"`
}

// CreateMeeting schedules a meeting for the user
// This is a pure API call with no business logic
func (c *Client) CreateMeeting(ctx context.Context, accessToken, userID string, request *CreateMeetingRequest) (*CreateMeetingResponse, error) {
	var meetingResp CreateMeetingResponse
	path := fmt.Sprintf("/users/%s/meetings", url.PathEscape(userID))
	if err := c.http.Do(ctx, http.MethodPost, path, accessToken, request, &meetingResp); err != nil {
		return nil, err
	}
	return &meetingResp, nil
}

// DeleteMeeting deletes a meeting from Zoom
// This is a pure API call with no business logic
func (c *Client) DeleteMeeting(ctx context.Context, accessToken, meetingID string) error {
	path := fmt.Sprintf("/meetings/%s", url.PathEscape(meetingID))
	return c.http.Do(ctx, http.MethodDelete, path, accessToken, nil, nil)
}
