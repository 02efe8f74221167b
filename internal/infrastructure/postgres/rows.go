// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

type eventRow struct {
	ID              string    `db:"id"`
	OwnerUserID     string    `db:"owner_user_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	LocationType    string    `db:"location_type"`
	CalendarID      string    `db:"calendar_id"`
	DurationMinutes int       `db:"duration_minutes"`
	IsPrivate       bool      `db:"is_private"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func toEventRow(e *models.Event) eventRow {
	return eventRow{
		ID:              e.ID,
		OwnerUserID:     e.OwnerUserID,
		Title:           e.Title,
		Description:     e.Description,
		LocationType:    string(e.LocationType),
		CalendarID:      e.CalendarID,
		DurationMinutes: e.DurationMinutes,
		IsPrivate:       e.IsPrivate,
		CreatedAt:       e.CreatedAt.UTC(),
		UpdatedAt:       e.UpdatedAt.UTC(),
	}
}

func (r eventRow) toModel() *models.Event {
	return &models.Event{
		ID:              r.ID,
		OwnerUserID:     r.OwnerUserID,
		Title:           r.Title,
		Description:     r.Description,
		LocationType:    models.LocationType(r.LocationType),
		CalendarID:      r.CalendarID,
		DurationMinutes: r.DurationMinutes,
		IsPrivate:       r.IsPrivate,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

type integrationRow struct {
	ID                string     `db:"id"`
	UserID            string     `db:"user_id"`
	ProviderKind      string     `db:"provider_kind"`
	AppKind           string     `db:"app_kind"`
	AccessToken       string     `db:"access_token"`
	RefreshToken      string     `db:"refresh_token"`
	ExpiryEpochMillis *int64     `db:"expiry_epoch_millis"`
	CalendarID        string     `db:"calendar_id"`
	ProviderUserID    string     `db:"provider_user_id"`
	IsConnected       bool       `db:"is_connected"`
	LastCheckedAt     *time.Time `db:"last_checked_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func toIntegrationRow(i *models.Integration) integrationRow {
	return integrationRow{
		ID:                i.ID,
		UserID:            i.UserID,
		ProviderKind:      string(i.ProviderKind),
		AppKind:           string(i.AppKind),
		AccessToken:       i.AccessToken,
		RefreshToken:      i.RefreshToken,
		ExpiryEpochMillis: i.ExpiryEpochMillis,
		CalendarID:        i.CalendarID,
		ProviderUserID:    i.ProviderUserID,
		IsConnected:       i.IsConnected,
		LastCheckedAt:     utcPtr(i.LastCheckedAt),
		CreatedAt:         i.CreatedAt.UTC(),
		UpdatedAt:         i.UpdatedAt.UTC(),
	}
}

func (r integrationRow) toModel() *models.Integration {
	return &models.Integration{
		ID:                r.ID,
		UserID:            r.UserID,
		ProviderKind:      models.ProviderKind(r.ProviderKind),
		AppKind:           models.AppKind(r.AppKind),
		AccessToken:       r.AccessToken,
		RefreshToken:      r.RefreshToken,
		ExpiryEpochMillis: r.ExpiryEpochMillis,
		CalendarID:        r.CalendarID,
		ProviderUserID:    r.ProviderUserID,
		IsConnected:       r.IsConnected,
		LastCheckedAt:     utcPtr(r.LastCheckedAt),
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}
}

// mutable columns of an integration
func (r integrationRow) record() goqu.Record {
	return goqu.Record{
		"provider_kind":       r.ProviderKind,
		"access_token":        r.AccessToken,
		"refresh_token":       r.RefreshToken,
		"expiry_epoch_millis": r.ExpiryEpochMillis,
		"calendar_id":         r.CalendarID,
		"provider_user_id":    r.ProviderUserID,
		"is_connected":        r.IsConnected,
		"last_checked_at":     r.LastCheckedAt,
		"updated_at":          r.UpdatedAt,
	}
}

type meetingRow struct {
	ID                string     `db:"id"`
	Reference         string     `db:"reference"`
	EventID           string     `db:"event_id"`
	OwnerUserID       string     `db:"owner_user_id"`
	Title             string     `db:"title"`
	GuestName         string     `db:"guest_name"`
	GuestEmail        string     `db:"guest_email"`
	AdditionalInfo    string     `db:"additional_info"`
	StartTime         time.Time  `db:"start_time"`
	EndTime           time.Time  `db:"end_time"`
	Timezone          string     `db:"timezone"`
	LocationType      string     `db:"location_type"`
	MeetLink          string     `db:"meet_link"`
	CalendarEventID   string     `db:"calendar_event_id"`
	CalendarAppType   string     `db:"calendar_app_type"`
	CalendarID        string     `db:"calendar_id"`
	MeetingProviderID string     `db:"meeting_provider_id"`
	Status            string     `db:"status"`
	Revision          uint64     `db:"revision"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	CancelledAt       *time.Time `db:"cancelled_at"`
}

func toMeetingRow(m *models.Meeting, revision uint64) meetingRow {
	return meetingRow{
		ID:                m.ID,
		Reference:         m.Reference,
		EventID:           m.EventID,
		OwnerUserID:       m.OwnerUserID,
		Title:             m.Title,
		GuestName:         m.GuestName,
		GuestEmail:        m.GuestEmail,
		AdditionalInfo:    m.AdditionalInfo,
		StartTime:         m.StartTime.UTC(),
		EndTime:           m.EndTime.UTC(),
		Timezone:          m.Timezone,
		LocationType:      string(m.LocationType),
		MeetLink:          m.MeetLink,
		CalendarEventID:   m.CalendarEventID,
		CalendarAppType:   string(m.CalendarAppType),
		CalendarID:        m.CalendarID,
		MeetingProviderID: m.MeetingProviderID,
		Status:            string(m.Status),
		Revision:          revision,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
		CancelledAt:       utcPtr(m.CancelledAt),
	}
}

func (r meetingRow) toModel() *models.Meeting {
	return &models.Meeting{
		ID:                r.ID,
		Reference:         r.Reference,
		EventID:           r.EventID,
		OwnerUserID:       r.OwnerUserID,
		Title:             r.Title,
		GuestName:         r.GuestName,
		GuestEmail:        r.GuestEmail,
		AdditionalInfo:    r.AdditionalInfo,
		StartTime:         r.StartTime.UTC(),
		EndTime:           r.EndTime.UTC(),
		Timezone:          r.Timezone,
		LocationType:      models.LocationType(r.LocationType),
		MeetLink:          r.MeetLink,
		CalendarEventID:   r.CalendarEventID,
		CalendarAppType:   models.AppKind(r.CalendarAppType),
		CalendarID:        r.CalendarID,
		MeetingProviderID: r.MeetingProviderID,
		Status:            models.MeetingStatus(r.Status),
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
		CancelledAt:       utcPtr(r.CancelledAt),
	}
}

// record holds the columns an update may change. The revision is bumped by
// the database so concurrent writers cannot both succeed.
func (r meetingRow) record() goqu.Record {
	return goqu.Record{
		"title":               r.Title,
		"guest_name":          r.GuestName,
		"guest_email":         r.GuestEmail,
		"additional_info":     r.AdditionalInfo,
		"start_time":          r.StartTime,
		"end_time":            r.EndTime,
		"timezone":            r.Timezone,
		"meet_link":           r.MeetLink,
		"calendar_event_id":   r.CalendarEventID,
		"calendar_app_type":   r.CalendarAppType,
		"calendar_id":         r.CalendarID,
		"meeting_provider_id": r.MeetingProviderID,
		"status":              r.Status,
		"updated_at":          r.UpdatedAt,
		"cancelled_at":        r.CancelledAt,
		"revision":            goqu.L("revision + 1"),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
