// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Event is the bookable template an organizer publishes.
type Event struct {
	ID              string       `json:"id"`
	OwnerUserID     string       `json:"owner_user_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	LocationType    LocationType `json:"location_type"`
	CalendarID      string       `json:"calendar_id,omitempty"`
	DurationMinutes int          `json:"duration_minutes"`
	IsPrivate       bool         `json:"is_private"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
