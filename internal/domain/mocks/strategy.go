// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// MockMeetingStrategy implements domain.MeetingStrategy for testing
type MockMeetingStrategy struct {
	mock.Mock
}

func (m *MockMeetingStrategy) StrategyName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMeetingStrategy) Combination() models.MeetingCombination {
	args := m.Called()
	return args.Get(0).(models.MeetingCombination)
}

func (m *MockMeetingStrategy) CreateMeeting(ctx context.Context, req *models.BookingRequest) (*models.CreateMeetingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateMeetingResult), args.Error(1)
}

func (m *MockMeetingStrategy) CancelMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) (*models.CancelMeetingResult, error) {
	args := m.Called(ctx, meeting, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancelMeetingResult), args.Error(1)
}

// MockStrategyFactory implements domain.StrategyFactory for testing
type MockStrategyFactory struct {
	mock.Mock
}

func (m *MockStrategyFactory) CreateStrategy(locationType models.LocationType) (domain.MeetingStrategy, error) {
	args := m.Called(locationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.MeetingStrategy), args.Error(1)
}

func (m *MockStrategyFactory) IsCombinationSupported(locationType models.LocationType) bool {
	args := m.Called(locationType)
	return args.Bool(0)
}

func (m *MockStrategyFactory) SupportedLocationTypes() []models.LocationType {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.LocationType)
}

func (m *MockStrategyFactory) DescribeLocationTypes() []models.LocationTypeInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.LocationTypeInfo)
}
