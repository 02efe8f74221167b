// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// MeetingStrategy orchestrates create and cancel for one meeting combination.
type MeetingStrategy interface {
	// StrategyName is "<meeting provider>+<calendar provider>".
	StrategyName() string

	Combination() models.MeetingCombination

	// CreateMeeting creates the remote session and calendar event and then
	// stores the Meeting. Nothing is stored when any step fails.
	CreateMeeting(ctx context.Context, req *models.BookingRequest) (*models.CreateMeetingResult, error)

	// CancelMeeting attempts both remote deletions and marks the Meeting
	// cancelled whatever their outcome.
	CancelMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) (*models.CancelMeetingResult, error)
}

// StrategyFactory dispatches a location type to its strategy.
type StrategyFactory interface {
	CreateStrategy(locationType models.LocationType) (MeetingStrategy, error)
	IsCombinationSupported(locationType models.LocationType) bool
	SupportedLocationTypes() []models.LocationType
	DescribeLocationTypes() []models.LocationTypeInfo
}
