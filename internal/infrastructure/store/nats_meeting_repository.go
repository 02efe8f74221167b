// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	base *NatsBaseRepository[models.Meeting]
	keys *KeyBuilder
}

var _ domain.MeetingRepository = (*NatsMeetingRepository)(nil)

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kv INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		base: NewNatsBaseRepository[models.Meeting](kv, "meeting"),
		keys: NewKeyBuilder(""),
	}
}

// CreateMeeting stores a new booking
func (r *NatsMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	return r.base.Create(ctx, r.keys.EntityKey(KeyPrefixMeeting, meeting.ID), meeting)
}

// GetMeeting returns a booking
func (r *NatsMeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	return r.base.Get(ctx, r.keys.EntityKey(KeyPrefixMeeting, meetingID))
}

// GetMeetingWithRevision returns a booking and its KV revision
func (r *NatsMeetingRepository) GetMeetingWithRevision(ctx context.Context, meetingID string) (*models.Meeting, uint64, error) {
	return r.base.GetWithRevision(ctx, r.keys.EntityKey(KeyPrefixMeeting, meetingID))
}

// UpdateMeeting rewrites a booking; Conflict when revision is stale
func (r *NatsMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.base.Update(ctx, r.keys.EntityKey(KeyPrefixMeeting, meeting.ID), meeting, revision)
}
