// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package api is a minimal Google Calendar v3 REST client.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
)

// ClientAPI defines the interface for Google Calendar API operations
type ClientAPI interface {
	InsertEvent(ctx context.Context, accessToken, calendarID string, event *Event, withConference bool) (*Event, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
	GetCalendar(ctx context.Context, accessToken, calendarID string) (*CalendarListEntry, error)
}

// BaseURL is the base URL for the Google Calendar API
const BaseURL = "https://www.googleapis.com/calendar/v3"

// Client is a Google Calendar client acting with a user's OAuth token
type Client struct {
	http *httpclient.Client
}

// Config holds the configuration for the Google Calendar client
type Config struct {
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a new Google Calendar API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}

	return &Client{
		http: httpclient.New(httpclient.Config{
			Provider:       "google",
			BaseURL:        config.BaseURL,
			Timeout:        config.Timeout,
			MaxRetries:     config.MaxRetries,
			InitialBackoff: config.InitialBackoff,
			MaxBackoff:     config.MaxBackoff,
			ParseError:     parseErrorResponse,
		}),
	}
}

// InsertEvent creates an event and notifies attendees. With withConference
// set, Google generates a Meet conference for the event.
func (c *Client) InsertEvent(ctx context.Context, accessToken, calendarID string, event *Event, withConference bool) (*Event, error) {
	query := url.Values{}
	query.Set("sendUpdates", "all")
	if withConference {
		query.Set("conferenceDataVersion", "1")
	}

	var created Event
	path := "/calendars/" + url.PathEscape(calendarID) + "/events?" + query.Encode()
	if err := c.http.Do(ctx, http.MethodPost, path, accessToken, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEvent deletes an event and notifies attendees.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID) + "?sendUpdates=all"
	return c.http.Do(ctx, http.MethodDelete, path, accessToken, nil, nil)
}

// GetCalendar reads the user's calendar list entry for the calendar.
func (c *Client) GetCalendar(ctx context.Context, accessToken, calendarID string) (*CalendarListEntry, error) {
	var entry CalendarListEntry
	path := "/users/me/calendarList/" + url.PathEscape(calendarID)
	if err := c.http.Do(ctx, http.MethodGet, path, accessToken, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// parseErrorResponse returns the first error reason and the message of a
// Google error body.
func parseErrorResponse(body []byte) (string, string) {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return "", ""
	}
	reason := ""
	if len(errResp.Error.Errors) > 0 {
		reason = errResp.Error.Errors[0].Reason
	}
	return reason, errResp.Error.Message
}
