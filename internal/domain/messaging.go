// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// BookingEventPublisher announces booking lifecycle changes.
type BookingEventPublisher interface {
	PublishMeetingScheduled(ctx context.Context, meeting *models.Meeting) error
	PublishMeetingCancelled(ctx context.Context, meeting *models.Meeting, result *models.CancelMeetingResult) error
}

// RefreshLocker leases a key so only one request refreshes a given
// integration's token at a time.
type RefreshLocker interface {
	// Acquire returns acquired=false when another holder owns the lease.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}
