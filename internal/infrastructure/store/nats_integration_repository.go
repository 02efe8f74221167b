// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// NatsIntegrationRepository is the NATS KV store repository for
// integrations, keyed by user and app kind
type NatsIntegrationRepository struct {
	base *NatsBaseRepository[models.Integration]
	keys *KeyBuilder
}

var _ domain.IntegrationRepository = (*NatsIntegrationRepository)(nil)

// NewNatsIntegrationRepository creates a new NATS KV store repository for integrations
func NewNatsIntegrationRepository(kv INatsKeyValue) *NatsIntegrationRepository {
	return &NatsIntegrationRepository{
		base: NewNatsBaseRepository[models.Integration](kv, "integration"),
		keys: NewKeyBuilder(""),
	}
}

func (r *NatsIntegrationRepository) key(userID string, appKind models.AppKind) string {
	return r.keys.IntegrationKey(userID, string(appKind))
}

// CreateIntegration stores a new integration; Conflict when the user
// already connected the app kind
func (r *NatsIntegrationRepository) CreateIntegration(ctx context.Context, integration *models.Integration) error {
	return r.base.Create(ctx, r.key(integration.UserID, integration.AppKind), integration)
}

// GetIntegration returns the user's integration for the app kind
func (r *NatsIntegrationRepository) GetIntegration(ctx context.Context, userID string, appKind models.AppKind) (*models.Integration, error) {
	return r.base.Get(ctx, r.key(userID, appKind))
}

// UpdateIntegration rewrites an integration. Concurrent token refreshes are
// last-writer-wins.
func (r *NatsIntegrationRepository) UpdateIntegration(ctx context.Context, integration *models.Integration) error {
	return r.base.Put(ctx, r.key(integration.UserID, integration.AppKind), integration)
}

// ListIntegrations returns every integration of the user
func (r *NatsIntegrationRepository) ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error) {
	return r.base.ListEntitiesEncoded(ctx, r.keys.IntegrationUserPrefix(userID), r.keys)
}

// ListAllIntegrations returns every stored integration
func (r *NatsIntegrationRepository) ListAllIntegrations(ctx context.Context) ([]*models.Integration, error) {
	return r.base.ListEntitiesEncoded(ctx, r.keys.IntegrationPrefix(), r.keys)
}
