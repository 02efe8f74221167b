// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// MeetingRepository stores bookings. The revision column carries the
// optimistic concurrency token.
type MeetingRepository struct {
	db *goqu.Database
}

var _ domain.MeetingRepository = (*MeetingRepository)(nil)

// CreateMeeting inserts the booking at revision 1.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	ctx, span := startSpan(ctx, "insert", TableMeetings)
	defer span.End()

	_, err := r.db.Insert(TableMeetings).Prepared(true).
		Rows(toMeetingRow(meeting, 1)).
		Executor().ExecContext(ctx)
	if isUniqueViolation(err) {
		return finish(span, domain.NewConflictError("meeting already exists", err))
	}
	if err != nil {
		return finish(span, domain.NewInternalError("failed to create meeting", err))
	}
	return finish(span, nil)
}

// GetMeeting returns the booking by id.
func (r *MeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	meeting, _, err := r.GetMeetingWithRevision(ctx, meetingID)
	return meeting, err
}

// GetMeetingWithRevision returns the booking and its current revision.
func (r *MeetingRepository) GetMeetingWithRevision(ctx context.Context, meetingID string) (*models.Meeting, uint64, error) {
	ctx, span := startSpan(ctx, "select", TableMeetings)
	defer span.End()

	var row meetingRow
	found, err := r.db.From(TableMeetings).Prepared(true).
		Where(goqu.C("id").Eq(meetingID)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, 0, finish(span, domain.NewInternalError("failed to get meeting", err))
	}
	if !found {
		return nil, 0, finish(span, domain.NewNotFoundError("meeting not found"))
	}
	return row.toModel(), row.Revision, finish(span, nil)
}

// UpdateMeeting rewrites the booking when revision is still current.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	ctx, span := startSpan(ctx, "update", TableMeetings)
	defer span.End()

	res, err := r.db.Update(TableMeetings).Prepared(true).
		Set(toMeetingRow(meeting, revision).record()).
		Where(goqu.C("id").Eq(meeting.ID), goqu.C("revision").Eq(revision)).
		Executor().ExecContext(ctx)
	if err != nil {
		return finish(span, domain.NewInternalError("failed to update meeting", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return finish(span, domain.NewInternalError("failed to update meeting", err))
	}
	if affected > 0 {
		return finish(span, nil)
	}

	// No row matched: either the meeting is gone or another writer moved
	// the revision on.
	var id string
	exists, err := r.db.From(TableMeetings).Prepared(true).
		Select("id").
		Where(goqu.C("id").Eq(meeting.ID)).
		ScanValContext(ctx, &id)
	if err != nil {
		return finish(span, domain.NewInternalError("failed to update meeting", err))
	}
	if !exists {
		return finish(span, domain.NewNotFoundError("meeting not found"))
	}
	return finish(span, domain.NewConflictError("meeting was modified concurrently"))
}
