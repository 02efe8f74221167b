// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// MaxBookingDuration caps the length of a booked slot.
	MaxBookingDuration time.Duration
	// HealthCheckWorkers bounds how many integrations are probed at once.
	HealthCheckWorkers int
}

// DefaultServiceConfig returns the configuration used when none is given.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxBookingDuration: constants.MaxBookingDurationMinutes * time.Minute,
		HealthCheckWorkers: 4,
	}
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	defaults := DefaultServiceConfig()
	if c.MaxBookingDuration <= 0 {
		c.MaxBookingDuration = defaults.MaxBookingDuration
	}
	if c.HealthCheckWorkers <= 0 {
		c.HealthCheckWorkers = defaults.HealthCheckWorkers
	}
	return c
}
