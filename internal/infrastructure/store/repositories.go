// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
)

// NewNatsRepositories opens the booking buckets, creating missing ones.
func NewNatsRepositories(ctx context.Context, js jetstream.JetStream) (*domain.Repositories, error) {
	buckets := make(map[string]jetstream.KeyValue, 3)
	for _, name := range []string{KVStoreNameEvents, KVStoreNameIntegrations, KVStoreNameMeetings} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name, History: 5})
		if err != nil {
			return nil, fmt.Errorf("error opening NATS KV bucket %q: %w", name, err)
		}
		buckets[name] = kv
	}

	return &domain.Repositories{
		Events:       NewNatsEventRepository(buckets[KVStoreNameEvents]),
		Integrations: NewNatsIntegrationRepository(buckets[KVStoreNameIntegrations]),
		Meetings:     NewNatsMeetingRepository(buckets[KVStoreNameMeetings]),
	}, nil
}

// NewMemoryRepositories returns repositories on in-memory buckets for
// local development.
func NewMemoryRepositories() *domain.Repositories {
	return &domain.Repositories{
		Events:       NewNatsEventRepository(NewMemoryKeyValue(KVStoreNameEvents)),
		Integrations: NewNatsIntegrationRepository(NewMemoryKeyValue(KVStoreNameIntegrations)),
		Meetings:     NewNatsMeetingRepository(NewMemoryKeyValue(KVStoreNameMeetings)),
	}
}
