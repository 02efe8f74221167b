// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// EventRepository defines the interface for event storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type EventRepository interface {
	UpsertEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	// GetPublicEvent returns NotFound for private events.
	GetPublicEvent(ctx context.Context, eventID string) (*models.Event, error)
}

// IntegrationRepository stores one credential per (user, app kind).
type IntegrationRepository interface {
	// CreateIntegration returns Conflict when the user already connected the app.
	CreateIntegration(ctx context.Context, integration *models.Integration) error
	GetIntegration(ctx context.Context, userID string, appKind models.AppKind) (*models.Integration, error)
	UpdateIntegration(ctx context.Context, integration *models.Integration) error
	ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error)
	ListAllIntegrations(ctx context.Context) ([]*models.Integration, error)
}

// MeetingRepository stores bookings with optimistic revisions.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting *models.Meeting) error
	GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error)
	GetMeetingWithRevision(ctx context.Context, meetingID string) (*models.Meeting, uint64, error)
	// UpdateMeeting returns Conflict when revision is stale.
	UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error
}

// Repositories groups the storage backend used by the service.
type Repositories struct {
	Events       EventRepository
	Integrations IntegrationRepository
	Meetings     MeetingRepository
}
