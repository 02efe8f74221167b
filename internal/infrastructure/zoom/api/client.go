// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
)

// ClientAPI defines the interface for Zoom API operations
// This allows for easy mocking and testing of the Zoom client
type ClientAPI interface {
	CreateMeeting(ctx context.Context, accessToken, userID string, request *CreateMeetingRequest) (*CreateMeetingResponse, error)
	DeleteMeeting(ctx context.Context, accessToken, meetingID string) error
	GetUser(ctx context.Context, accessToken, userID string) (*ZoomUser, error)
}

const (
	// BaseURL is the base URL for Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// CurrentUser addresses the user who authorized the access token.
	CurrentUser = "me"
)

// Client represents a Zoom API client acting with a user's OAuth token
type Client struct {
	http *httpclient.Client
}

// Config holds the configuration for the Zoom client
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

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient creates a new Zoom API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}

	return &Client{
		http: httpclient.New(httpclient.Config{
			Provider:       "zoom",
			BaseURL:        config.BaseURL,
			Timeout:        config.Timeout,
			MaxRetries:     config.MaxRetries,
			InitialBackoff: config.InitialBackoff,
			MaxBackoff:     config.MaxBackoff,
			ParseError:     parseErrorResponse,
		}),
	}
}

// parseErrorResponse extracts the numeric Zoom error code and message
func parseErrorResponse(body []byte) (string, string) {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return "", ""
	}
	return strconv.Itoa(errResp.Code), errResp.Message
}
