// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

func TestParseBookingTime(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		loc     *time.Location
		want    time.Time
		wantErr bool
	}{
		{
			name:  "utc designator",
			value: "2025-03-10T15:00:00Z",
			loc:   newYork,
			want:  time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "explicit offset ignores timezone",
			value: "2025-03-10T10:00:00-05:00",
			loc:   time.UTC,
			want:  time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "local time read in timezone",
			value: "2025-03-10T15:00:00",
			loc:   newYork,
			want:  time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC),
		},
		{
			name:  "minutes precision",
			value: "2025-01-10T09:30",
			loc:   newYork,
			want:  time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:    "not a time",
			value:   "tomorrow afternoon",
			loc:     time.UTC,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBookingTime(tt.value, tt.loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestValidateCreateMeetingRequest(t *testing.T) {
	valid := func() *models.CreateMeetingRequest {
		return &models.CreateMeetingRequest{
			EventID:    "evt-1",
			GuestName:  " Ana ",
			GuestEmail: "Ana <ana@example.com>",
			StartTime:  "2025-03-10T15:00:00Z",
			EndTime:    "2025-03-10T15:30:00Z",
			Timezone:   "UTC",
		}
	}

	input, err := validateCreateMeetingRequest(valid(), 10*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "Ana", input.guestName)
	assert.Equal(t, "ana@example.com", input.guestEmail)
	assert.Equal(t, 30*time.Minute, input.end.Sub(input.start))

	noTimezone := valid()
	noTimezone.Timezone = ""
	input, err = validateCreateMeetingRequest(noTimezone, 10*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "UTC", input.timezone)

	tests := []struct {
		name   string
		mutate func(r *models.CreateMeetingRequest)
	}{
		{"missing event", func(r *models.CreateMeetingRequest) { r.EventID = "" }},
		{"empty guest name", func(r *models.CreateMeetingRequest) { r.GuestName = "  " }},
		{"invalid email", func(r *models.CreateMeetingRequest) { r.GuestEmail = "not-an-email" }},
		{"unknown timezone", func(r *models.CreateMeetingRequest) { r.Timezone = "Mars/Olympus_Mons" }},
		{"malformed start", func(r *models.CreateMeetingRequest) { r.StartTime = "10/03/2025" }},
		{"malformed end", func(r *models.CreateMeetingRequest) { r.EndTime = "" }},
		{"end equals start", func(r *models.CreateMeetingRequest) { r.EndTime = r.StartTime }},
		{"end before start", func(r *models.CreateMeetingRequest) { r.EndTime = "2025-03-10T14:00:00Z" }},
		{"too long", func(r *models.CreateMeetingRequest) { r.EndTime = "2025-03-11T15:00:00Z" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := validateCreateMeetingRequest(req, 10*time.Hour)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		})
	}

	_, err = validateCreateMeetingRequest(nil, time.Hour)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}
