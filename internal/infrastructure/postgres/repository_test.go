// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

var fixedTime = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*goqu.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return goqu.New(dialect, db), mock
}

var eventColumns = []string{
	"id", "owner_user_id", "title", "description", "location_type",
	"calendar_id", "duration_minutes", "is_private", "created_at", "updated_at",
}

func eventValues(id string, private bool) []driver.Value {
	return []driver.Value{
		id, "owner-1", "Intro call", "", string(models.LocationTypeZoomMeeting),
		"", 30, private, fixedTime, fixedTime,
	}
}

func TestEventRepository_UpsertEvent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &EventRepository{db: db}

	mock.ExpectExec(`INSERT INTO "booking_events" .* ON CONFLICT \(id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertEvent(context.Background(), &models.Event{
		ID:              "evt-1",
		OwnerUserID:     "owner-1",
		Title:           "Intro call",
		LocationType:    models.LocationTypeZoomMeeting,
		DurationMinutes: 30,
		CreatedAt:       fixedTime,
		UpdatedAt:       fixedTime,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetPublicEvent(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		expected domain.ErrorType
		wantErr  bool
	}{
		{
			name: "public event",
			rows: sqlmock.NewRows(eventColumns).AddRow(eventValues("evt-1", false)...),
		},
		{
			name:     "private event is hidden",
			rows:     sqlmock.NewRows(eventColumns).AddRow(eventValues("evt-1", true)...),
			expected: domain.ErrorTypeNotFound,
			wantErr:  true,
		},
		{
			name:     "missing event",
			rows:     sqlmock.NewRows(eventColumns),
			expected: domain.ErrorTypeNotFound,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := &EventRepository{db: db}
			mock.ExpectQuery(`SELECT .* FROM "booking_events" WHERE \("id" = \$1\)`).
				WillReturnRows(tt.rows)

			event, err := repo.GetPublicEvent(context.Background(), "evt-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.expected, domain.GetErrorType(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "evt-1", event.ID)
			assert.Equal(t, models.LocationTypeZoomMeeting, event.LocationType)
			assert.Equal(t, 30, event.DurationMinutes)
		})
	}
}

var integrationColumns = []string{
	"id", "user_id", "provider_kind", "app_kind", "access_token", "refresh_token",
	"expiry_epoch_millis", "calendar_id", "provider_user_id", "is_connected",
	"last_checked_at", "created_at", "updated_at",
}

func TestIntegrationRepository_CreateIntegration(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		expected domain.ErrorType
	}{
		{name: "duplicate maps to conflict", dbErr: &pq.Error{Code: "23505"}, expected: domain.ErrorTypeConflict},
		{name: "other failures are internal", dbErr: errors.New("connection reset"), expected: domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := &IntegrationRepository{db: db}
			mock.ExpectExec(`INSERT INTO "booking_integrations"`).WillReturnError(tt.dbErr)

			err := repo.CreateIntegration(context.Background(), &models.Integration{
				ID:      "int-1",
				UserID:  "user-1",
				AppKind: models.AppKindZoomMeeting,
			})
			require.Error(t, err)
			assert.Equal(t, tt.expected, domain.GetErrorType(err))
		})
	}
}

func TestIntegrationRepository_GetIntegration(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &IntegrationRepository{db: db}

	expiry := int64(1741618800000)
	mock.ExpectQuery(`SELECT .* FROM "booking_integrations" WHERE`).
		WillReturnRows(sqlmock.NewRows(integrationColumns).AddRow(
			"int-1", "user-1", "GOOGLE", "GOOGLE_MEET_AND_CALENDAR", "at", "rt",
			expiry, "team@group.calendar.google.com", "", true,
			nil, fixedTime, fixedTime,
		))

	got, err := repo.GetIntegration(context.Background(), "user-1", models.AppKindGoogleMeetAndCalendar)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderKindGoogle, got.ProviderKind)
	require.NotNil(t, got.ExpiryEpochMillis)
	assert.Equal(t, expiry, *got.ExpiryEpochMillis)
	assert.Nil(t, got.LastCheckedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationRepository_UpdateIntegration_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &IntegrationRepository{db: db}
	mock.ExpectExec(`UPDATE "booking_integrations" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateIntegration(context.Background(), &models.Integration{UserID: "user-1", AppKind: models.AppKindZoomMeeting})
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestIntegrationRepository_ListIntegrations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &IntegrationRepository{db: db}
	mock.ExpectQuery(`SELECT .* FROM "booking_integrations" WHERE \("user_id" = \$1\) ORDER BY`).
		WillReturnRows(sqlmock.NewRows(integrationColumns).
			AddRow("int-1", "user-1", "GOOGLE", "GOOGLE_MEET_AND_CALENDAR", "at", "", nil, "", "", true, nil, fixedTime, fixedTime).
			AddRow("int-2", "user-1", "ZOOM", "ZOOM_MEETING", "at", "rt", nil, "", "", false, fixedTime, fixedTime, fixedTime))

	got, err := repo.ListIntegrations(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.AppKindZoomMeeting, got[1].AppKind)
	assert.False(t, got[1].IsConnected)
	require.NotNil(t, got[1].LastCheckedAt)
}

var meetingColumns = []string{
	"id", "reference", "event_id", "owner_user_id", "title", "guest_name", "guest_email",
	"additional_info", "start_time", "end_time", "timezone", "location_type", "meet_link",
	"calendar_event_id", "calendar_app_type", "calendar_id", "meeting_provider_id", "status",
	"revision", "created_at", "updated_at", "cancelled_at",
}

func testMeeting() *models.Meeting {
	return &models.Meeting{
		ID:                "mtg-1",
		Reference:         "3xYz",
		EventID:           "evt-1",
		OwnerUserID:       "owner-1",
		GuestName:         "Ana",
		GuestEmail:        "ana@x.com",
		StartTime:         fixedTime,
		EndTime:           fixedTime.Add(30 * time.Minute),
		Timezone:          "UTC",
		LocationType:      models.LocationTypeOutlookWithZoom,
		MeetLink:          "https://zoom.us/j/1",
		CalendarEventID:   "outlook-evt-1",
		CalendarAppType:   models.AppKindOutlookCalendar,
		MeetingProviderID: "1",
		Status:            models.MeetingStatusScheduled,
		CreatedAt:         fixedTime,
		UpdatedAt:         fixedTime,
	}
}

func TestMeetingRepository_CreateMeeting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &MeetingRepository{db: db}
	mock.ExpectExec(`INSERT INTO "booking_meetings"`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateMeeting(context.Background(), testMeeting()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_GetMeetingWithRevision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &MeetingRepository{db: db}
	mock.ExpectQuery(`SELECT .* FROM "booking_meetings" WHERE \("id" = \$1\)`).
		WillReturnRows(sqlmock.NewRows(meetingColumns).AddRow(
			"mtg-1", "3xYz", "evt-1", "owner-1", "", "Ana", "ana@x.com",
			"", fixedTime, fixedTime.Add(30*time.Minute), "UTC", "OUTLOOK_WITH_ZOOM", "https://zoom.us/j/1",
			"outlook-evt-1", "OUTLOOK_CALENDAR", "", "1", "SCHEDULED",
			int64(3), fixedTime, fixedTime, nil,
		))

	meeting, revision, err := repo.GetMeetingWithRevision(context.Background(), "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), revision)
	assert.Equal(t, models.AppKindOutlookCalendar, meeting.CalendarAppType)
	assert.False(t, meeting.IsCancelled())
}

func TestMeetingRepository_UpdateMeeting(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		expected *domain.ErrorType
	}{
		{
			name: "current revision",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "booking_meetings" SET .*"revision"=revision \+ 1.* WHERE`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "stale revision",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "booking_meetings"`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT "id" FROM "booking_meetings"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mtg-1"))
			},
			expected: ptrType(domain.ErrorTypeConflict),
		},
		{
			name: "deleted meeting",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "booking_meetings"`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT "id" FROM "booking_meetings"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expected: ptrType(domain.ErrorTypeNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := &MeetingRepository{db: db}
			tt.setup(mock)

			meeting := testMeeting()
			now := fixedTime.Add(time.Hour)
			meeting.Status = models.MeetingStatusCancelled
			meeting.CancelledAt = &now

			err := repo.UpdateMeeting(context.Background(), meeting, 2)
			if tt.expected == nil {
				require.NoError(t, err)
			} else {
				assert.Equal(t, *tt.expected, domain.GetErrorType(err))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func ptrType(t domain.ErrorType) *domain.ErrorType {
	return &t
}
