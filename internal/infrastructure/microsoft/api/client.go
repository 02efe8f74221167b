// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package api is a minimal Microsoft Graph client for Outlook calendars.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
)

// ClientAPI defines the interface for Microsoft Graph calendar operations.
// An empty calendarID addresses the user's default calendar.
type ClientAPI interface {
	CreateEvent(ctx context.Context, accessToken, calendarID string, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
	GetCalendar(ctx context.Context, accessToken, calendarID string) (*Calendar, error)
}

// BaseURL is the base URL for Microsoft Graph v1.0
const BaseURL = "https://graph.microsoft.com/v1.0"

// Client is a Graph client acting with a user's OAuth token
type Client struct {
	http *httpclient.Client
}

// Config holds the configuration for the Graph client
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

// NewClient creates a new Graph client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}

	return &Client{
		http: httpclient.New(httpclient.Config{
			Provider:       "microsoft",
			BaseURL:        config.BaseURL,
			Timeout:        config.Timeout,
			MaxRetries:     config.MaxRetries,
			InitialBackoff: config.InitialBackoff,
			MaxBackoff:     config.MaxBackoff,
			Marshal:        json.Marshal,
			Unmarshal:      json.Unmarshal,
			ParseError:     parseErrorResponse,
		}),
	}
}

// EventsPath is the events collection of the calendar.
func EventsPath(calendarID string) string {
	if calendarID == "" {
		return "/me/events"
	}
	return "/me/calendars/" + url.PathEscape(calendarID) + "/events"
}

// CreateEvent creates an event; Graph sends the invitations.
func (c *Client) CreateEvent(ctx context.Context, accessToken, calendarID string, event *Event) (*Event, error) {
	var created Event
	if err := c.http.Do(ctx, http.MethodPost, EventsPath(calendarID), accessToken, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEvent deletes an event; Graph sends the cancellations.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	path := EventsPath(calendarID) + "/" + url.PathEscape(eventID)
	return c.http.Do(ctx, http.MethodDelete, path, accessToken, nil, nil)
}

// GetCalendar reads a calendar, the default one for an empty id.
func (c *Client) GetCalendar(ctx context.Context, accessToken, calendarID string) (*Calendar, error) {
	path := "/me/calendar"
	if calendarID != "" {
		path = "/me/calendars/" + url.PathEscape(calendarID)
	}

	var calendar Calendar
	if err := c.http.Do(ctx, http.MethodGet, path, accessToken, nil, &calendar); err != nil {
		return nil, err
	}
	return &calendar, nil
}

// parseErrorResponse extracts the Graph error code and message
func parseErrorResponse(body []byte) (string, string) {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return "", ""
	}
	return errResp.Error.Code, errResp.Error.Message
}
