// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// NatsEventRepository is the NATS KV store repository for events
type NatsEventRepository struct {
	base *NatsBaseRepository[models.Event]
	keys *KeyBuilder
}

var _ domain.EventRepository = (*NatsEventRepository)(nil)

// NewNatsEventRepository creates a new NATS KV store repository for events
func NewNatsEventRepository(kv INatsKeyValue) *NatsEventRepository {
	return &NatsEventRepository{
		base: NewNatsBaseRepository[models.Event](kv, "event"),
		keys: NewKeyBuilder(""),
	}
}

// UpsertEvent creates or replaces an event
func (r *NatsEventRepository) UpsertEvent(ctx context.Context, event *models.Event) error {
	return r.base.Put(ctx, r.keys.EntityKey(KeyPrefixEvent, event.ID), event)
}

// GetEvent returns an event regardless of its visibility
func (r *NatsEventRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return r.base.Get(ctx, r.keys.EntityKey(KeyPrefixEvent, eventID))
}

// GetPublicEvent returns NotFound for private events
func (r *NatsEventRepository) GetPublicEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := r.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsPrivate {
		return nil, domain.NewNotFoundError("event not found")
	}
	return event, nil
}
