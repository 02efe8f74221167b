// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// localLayouts are accepted for times without a UTC offset.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseBookingTime reads an ISO-8601 time. A value with an offset is taken
// as is; one without is read in loc. The result is always UTC.
func parseBookingTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}

// loadTimezone resolves an IANA zone name; empty means UTC.
func loadTimezone(name string) (*time.Location, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, "UTC", nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, "", err
	}
	return loc, name, nil
}

// bookingInput is a validated create request before the event is resolved.
type bookingInput struct {
	guestName      string
	guestEmail     string
	start          time.Time
	end            time.Time
	timezone       string
	additionalInfo string
}

func validateCreateMeetingRequest(req *models.CreateMeetingRequest, maxDuration time.Duration) (*bookingInput, error) {
	if req == nil {
		return nil, domain.NewValidationError("request body is required")
	}
	if strings.TrimSpace(req.EventID) == "" {
		return nil, domain.NewValidationError("event_id is required")
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return nil, domain.NewValidationError("guest_name is required")
	}
	address, err := mail.ParseAddress(strings.TrimSpace(req.GuestEmail))
	if err != nil {
		return nil, domain.NewValidationError("guest_email is not a valid email address", err)
	}

	loc, timezone, err := loadTimezone(req.Timezone)
	if err != nil {
		return nil, domain.NewValidationError("unknown timezone "+req.Timezone, err)
	}
	start, err := parseBookingTime(req.StartTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("start_time is not a valid ISO-8601 time", err)
	}
	end, err := parseBookingTime(req.EndTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("end_time is not a valid ISO-8601 time", err)
	}
	if !end.After(start) {
		return nil, domain.NewValidationError("end_time must be after start_time")
	}
	if end.Sub(start) > maxDuration {
		return nil, domain.NewValidationError(fmt.Sprintf("booking cannot be longer than %s", maxDuration))
	}

	return &bookingInput{
		guestName:      name,
		guestEmail:     address.Address,
		start:          start,
		end:            end,
		timezone:       timezone,
		additionalInfo: strings.TrimSpace(req.AdditionalInfo),
	}, nil
}

func validateEvent(event *models.Event) error {
	if event == nil {
		return domain.NewValidationError("request body is required")
	}
	if strings.TrimSpace(event.ID) == "" {
		return domain.NewValidationError("id is required")
	}
	if strings.TrimSpace(event.OwnerUserID) == "" {
		return domain.NewValidationError("owner_user_id is required")
	}
	if strings.TrimSpace(event.Title) == "" {
		return domain.NewValidationError("title is required")
	}
	if event.LocationType == "" {
		return domain.NewValidationError("location_type is required")
	}
	if event.DurationMinutes < 0 {
		return domain.NewValidationError("duration_minutes cannot be negative")
	}
	return nil
}
