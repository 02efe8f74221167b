// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package lock

import (
	"context"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
)

// LocalLocker leases keys within this process. It is used when no Redis
// address is configured, which is only safe with a single replica.
type LocalLocker struct {
	mu     sync.Mutex
	leases map[string]localLease
	seq    uint64
	now    func() time.Time
}

type localLease struct {
	token     uint64
	expiresAt time.Time
}

var _ domain.RefreshLocker = (*LocalLocker)(nil)

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		leases: make(map[string]localLease),
		now:    time.Now,
	}
}

// Acquire takes the lease on key for ttl.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if lease, ok := l.leases[key]; ok && now.Before(lease.expiresAt) {
		return nil, false, nil
	}

	l.seq++
	token := l.seq
	l.leases[key] = localLease{token: token, expiresAt: now.Add(ttl)}

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if lease, ok := l.leases[key]; ok && lease.token == token {
			delete(l.leases, key)
		}
		return nil
	}
	return release, true, nil
}
