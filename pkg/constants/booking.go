// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "time"

// Booking constraints
const (
	// MaxBookingDurationMinutes is the longest slot a guest can book.
	MaxBookingDurationMinutes = 600

	// DefaultCalendarID is the alias every calendar provider resolves to the
	// account's primary calendar.
	DefaultCalendarID = "primary"
)

// Token refresh safety margins, applied before the recorded expiry.
const (
	ZoomTokenExpiryMargin      = time.Minute
	GoogleTokenExpiryMargin    = 5 * time.Minute
	MicrosoftTokenExpiryMargin = 5 * time.Minute
)

// NATS queue and service identity
const (
	// BookingAPIQueue is the queue group for the booking service request handlers.
	BookingAPIQueue = "lfx.booking-api.queue"

	// ServiceName is used as the default otel service name and NATS client name.
	ServiceName = "lfx-v2-booking-service"
)
