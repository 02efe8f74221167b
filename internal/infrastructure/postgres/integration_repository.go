// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// IntegrationRepository stores OAuth integrations, unique per user and app kind.
type IntegrationRepository struct {
	db *goqu.Database
}

var _ domain.IntegrationRepository = (*IntegrationRepository)(nil)

func byUserAndKind(userID string, appKind models.AppKind) goqu.Ex {
	return goqu.Ex{"user_id": userID, "app_kind": string(appKind)}
}

// CreateIntegration inserts the integration; Conflict when the user already
// connected the app kind.
func (r *IntegrationRepository) CreateIntegration(ctx context.Context, integration *models.Integration) error {
	ctx, span := startSpan(ctx, "insert", TableIntegrations)
	defer span.End()

	_, err := r.db.Insert(TableIntegrations).Prepared(true).
		Rows(toIntegrationRow(integration)).
		Executor().ExecContext(ctx)
	if isUniqueViolation(err) {
		return finish(span, domain.NewConflictError("integration already exists", err))
	}
	if err != nil {
		return finish(span, domain.NewInternalError("failed to create integration", err))
	}
	return finish(span, nil)
}

// GetIntegration returns the user's integration for the app kind.
func (r *IntegrationRepository) GetIntegration(ctx context.Context, userID string, appKind models.AppKind) (*models.Integration, error) {
	ctx, span := startSpan(ctx, "select", TableIntegrations)
	defer span.End()

	var row integrationRow
	found, err := r.db.From(TableIntegrations).Prepared(true).
		Where(byUserAndKind(userID, appKind)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, finish(span, domain.NewInternalError("failed to get integration", err))
	}
	if !found {
		return nil, finish(span, domain.NewNotFoundError("integration not found"))
	}
	return row.toModel(), finish(span, nil)
}

// UpdateIntegration rewrites the credential columns. Concurrent token
// refreshes are last-writer-wins.
func (r *IntegrationRepository) UpdateIntegration(ctx context.Context, integration *models.Integration) error {
	ctx, span := startSpan(ctx, "update", TableIntegrations)
	defer span.End()

	res, err := r.db.Update(TableIntegrations).Prepared(true).
		Set(toIntegrationRow(integration).record()).
		Where(byUserAndKind(integration.UserID, integration.AppKind)).
		Executor().ExecContext(ctx)
	if err != nil {
		return finish(span, domain.NewInternalError("failed to update integration", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return finish(span, domain.NewInternalError("failed to update integration", err))
	}
	if affected == 0 {
		return finish(span, domain.NewNotFoundError("integration not found"))
	}
	return finish(span, nil)
}

// ListIntegrations returns the user's integrations ordered by app kind.
func (r *IntegrationRepository) ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error) {
	return r.list(ctx, r.db.From(TableIntegrations).Where(goqu.C("user_id").Eq(userID)))
}

// ListAllIntegrations returns every stored integration.
func (r *IntegrationRepository) ListAllIntegrations(ctx context.Context) ([]*models.Integration, error) {
	return r.list(ctx, r.db.From(TableIntegrations))
}

func (r *IntegrationRepository) list(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Integration, error) {
	ctx, span := startSpan(ctx, "select", TableIntegrations)
	defer span.End()

	var rows []integrationRow
	err := ds.Prepared(true).
		Order(goqu.C("user_id").Asc(), goqu.C("app_kind").Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, finish(span, domain.NewInternalError("failed to list integrations", err))
	}

	integrations := make([]*models.Integration, 0, len(rows))
	for _, row := range rows {
		integrations = append(integrations, row.toModel())
	}
	return integrations, finish(span, nil)
}
