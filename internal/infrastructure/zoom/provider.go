// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package zoom is the Zoom Meeting Provider.
package zoom

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strconv"

	"github.com/akamensky/base58"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/httpclient"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/oauth"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// passcodeLength is the longest passcode Zoom accepts.
const passcodeLength = 10

// Provider implements domain.MeetingProvider on the Zoom REST API
type Provider struct {
	client api.ClientAPI
	tokens *oauth.Validator
}

// Ensure Provider implements MeetingProvider
var _ domain.MeetingProvider = (*Provider)(nil)

// NewProvider creates a Zoom provider
func NewProvider(client api.ClientAPI, tokens *oauth.Validator) *Provider {
	return &Provider{client: client, tokens: tokens}
}

// Name returns the registry name of the provider
func (p *Provider) Name() string {
	return models.ProviderZoom
}

// TokenNeedsRefresh reports whether the Zoom token is inside its expiry margin
func (p *Provider) TokenNeedsRefresh(token models.TokenConfig) bool {
	return p.tokens.NeedsRefresh(token)
}

// ValidateAndRefreshToken refreshes the Zoom token when needed
func (p *Provider) ValidateAndRefreshToken(ctx context.Context, token models.TokenConfig) (models.TokenConfig, error) {
	return p.tokens.Validate(ctx, token)
}

// CreateMeeting schedules a Zoom meeting owned by the token's user
func (p *Provider) CreateMeeting(ctx context.Context, config models.MeetingConfig, token models.TokenConfig) (*models.MeetingInfo, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "create_meeting"))

	passcode, err := generatePasscode()
	if err != nil {
		return nil, domain.NewInternalError("failed to generate meeting passcode", err)
	}

	request := &api.CreateMeetingRequest{
		Topic:     config.Topic,
		Type:      api.MeetingTypeScheduled,
		StartTime: config.StartTime.UTC().Format(api.StartTimeLayout),
		Duration:  config.DurationMinutes(),
		Timezone:  config.Timezone,
		Agenda:    config.Description,
		Password:  passcode,
		Settings:  toZoomSettings(config),
	}

	resp, err := p.client.CreateMeeting(ctx, token.AccessToken, api.CurrentUser, request)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Zoom meeting", logging.ErrKey, err)
		return nil, domain.NewProviderOperationError(models.ProviderZoom, "create_meeting", err)
	}

	meetingID := strconv.FormatInt(resp.ID, 10)
	slog.InfoContext(ctx, "created Zoom meeting", "zoom_meeting_id", meetingID)

	return &models.MeetingInfo{
		ID:       meetingID,
		JoinURL:  resp.JoinURL,
		StartURL: resp.StartURL,
		Passcode: resp.Password,
	}, nil
}

// DeleteMeeting deletes a Zoom meeting; a meeting that no longer exists
// counts as deleted
func (p *Provider) DeleteMeeting(ctx context.Context, meetingID string, token models.TokenConfig, ownerUserID string) error {
	ctx = logging.AppendCtx(ctx,
		slog.String("zoom_operation", "delete_meeting"),
		slog.String("zoom_meeting_id", meetingID),
		slog.String(logging.UserIDKey, ownerUserID),
	)

	err := p.client.DeleteMeeting(ctx, token.AccessToken, meetingID)
	if err == nil {
		slog.InfoContext(ctx, "deleted Zoom meeting")
		return nil
	}
	if httpclient.IsNotFound(err) {
		slog.InfoContext(ctx, "Zoom meeting already gone, treating as deleted")
		return nil
	}

	slog.ErrorContext(ctx, "failed to delete Zoom meeting", logging.ErrKey, err)
	return domain.NewProviderOperationError(models.ProviderZoom, "delete_meeting", err)
}

// CanCreateMeetings checks that the token's Zoom user is active
func (p *Provider) CanCreateMeetings(ctx context.Context, userID string, token models.TokenConfig) (bool, error) {
	user, err := p.client.GetUser(ctx, token.AccessToken, api.CurrentUser)
	if err != nil {
		slog.WarnContext(ctx, "Zoom capability probe failed",
			logging.UserIDKey, userID,
			logging.ErrKey, err,
		)
		return false, domain.NewProviderOperationError(models.ProviderZoom, "get_user", err)
	}
	return user.Status == api.UserStatusActive, nil
}

func toZoomSettings(config models.MeetingConfig) *api.MeetingSettings {
	settings := &api.MeetingSettings{
		HostVideo:        config.Settings.HostVideo,
		ParticipantVideo: config.Settings.ParticipantVideo,
		JoinBeforeHost:   config.Settings.JoinBeforeHost,
		WaitingRoom:      config.Settings.WaitingRoom,
		Audio:            config.Settings.Audio,
		AutoRecording:    config.Settings.AutoRecording,
	}
	for _, attendee := range config.Attendees {
		settings.MeetingInvitees = append(settings.MeetingInvitees, api.Invitee{Email: attendee.Email})
	}
	return settings
}

// generatePasscode returns a random alphanumeric passcode.
func generatePasscode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	passcode := base58.Encode(buf)
	if len(passcode) > passcodeLength {
		passcode = passcode[:passcodeLength]
	}
	return passcode, nil
}
