// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// EventRepository stores bookable events in PostgreSQL.
type EventRepository struct {
	db *goqu.Database
}

var _ domain.EventRepository = (*EventRepository)(nil)

// UpsertEvent inserts the event or replaces every column but created_at.
func (r *EventRepository) UpsertEvent(ctx context.Context, event *models.Event) error {
	ctx, span := startSpan(ctx, "upsert", TableEvents)
	defer span.End()

	row := toEventRow(event)
	_, err := r.db.Insert(TableEvents).Prepared(true).
		Rows(row).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"owner_user_id":    row.OwnerUserID,
			"title":            row.Title,
			"description":      row.Description,
			"location_type":    row.LocationType,
			"calendar_id":      row.CalendarID,
			"duration_minutes": row.DurationMinutes,
			"is_private":       row.IsPrivate,
			"updated_at":       row.UpdatedAt,
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return finish(span, domain.NewInternalError("failed to upsert event", err))
	}
	return finish(span, nil)
}

// GetEvent returns the event by id.
func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	ctx, span := startSpan(ctx, "select", TableEvents)
	defer span.End()

	var row eventRow
	found, err := r.db.From(TableEvents).Prepared(true).
		Where(goqu.C("id").Eq(eventID)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, finish(span, domain.NewInternalError("failed to get event", err))
	}
	if !found {
		return nil, finish(span, domain.NewNotFoundError("event not found"))
	}
	return row.toModel(), finish(span, nil)
}

// GetPublicEvent returns the event unless it is private.
func (r *EventRepository) GetPublicEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := r.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsPrivate {
		return nil, domain.NewNotFoundError("event not found")
	}
	return event, nil
}
