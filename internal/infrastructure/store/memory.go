// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// errWrongLastSequence mirrors the JetStream error for a stale revision.
var errWrongLastSequence = errors.New("nats: wrong last sequence")

// MemoryKeyValue is an in-process INatsKeyValue with JetStream's revision
// semantics. It backs the memory storage backend and the store tests.
type MemoryKeyValue struct {
	bucket    string
	mu        sync.RWMutex
	data      map[string][]byte
	revisions map[string]uint64
	sequence  uint64

	// Injected failures for tests.
	getError    error
	putError    error
	updateError error
}

var _ INatsKeyValue = (*MemoryKeyValue)(nil)

// NewMemoryKeyValue creates an empty in-memory bucket
func NewMemoryKeyValue(bucket string) *MemoryKeyValue {
	return &MemoryKeyValue{
		bucket:    bucket,
		data:      make(map[string][]byte),
		revisions: make(map[string]uint64),
	}
}

// ListKeys lists the keys in sorted order
func (m *MemoryKeyValue) ListKeys(ctx context.Context, opts ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &memoryKeyLister{keys: keys}, nil
}

// Get returns the latest entry of the key
func (m *MemoryKeyValue) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getError != nil {
		return nil, m.getError
	}
	value, exists := m.data[key]
	if !exists {
		return nil, jetstream.ErrKeyNotFound
	}
	return &memoryEntry{bucket: m.bucket, key: key, value: value, revision: m.revisions[key]}, nil
}

// Put writes the key unconditionally
func (m *MemoryKeyValue) Put(ctx context.Context, key string, data []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putError != nil {
		return 0, m.putError
	}
	return m.write(key, data), nil
}

// Create writes the key only if it does not exist
func (m *MemoryKeyValue) Create(ctx context.Context, key string, data []byte, opts ...jetstream.KVCreateOpt) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putError != nil {
		return 0, m.putError
	}
	if _, exists := m.data[key]; exists {
		return 0, jetstream.ErrKeyExists
	}
	return m.write(key, data), nil
}

// Update writes the key if its revision still matches
func (m *MemoryKeyValue) Update(ctx context.Context, key string, data []byte, revision uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return 0, m.updateError
	}
	current, exists := m.revisions[key]
	if !exists {
		return 0, jetstream.ErrKeyNotFound
	}
	if current != revision {
		return 0, errWrongLastSequence
	}
	return m.write(key, data), nil
}

// write stores the value under the next bucket-wide sequence, as JetStream does.
func (m *MemoryKeyValue) write(key string, data []byte) uint64 {
	m.sequence++
	m.data[key] = append([]byte(nil), data...)
	m.revisions[key] = m.sequence
	return m.sequence
}

type memoryEntry struct {
	bucket   string
	key      string
	value    []byte
	revision uint64
}

func (e *memoryEntry) Bucket() string                  { return e.bucket }
func (e *memoryEntry) Key() string                     { return e.key }
func (e *memoryEntry) Value() []byte                   { return e.value }
func (e *memoryEntry) Revision() uint64                { return e.revision }
func (e *memoryEntry) Created() time.Time              { return time.Time{} }
func (e *memoryEntry) Delta() uint64                   { return 0 }
func (e *memoryEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type memoryKeyLister struct {
	keys []string
}

func (l *memoryKeyLister) Keys() <-chan string {
	ch := make(chan string, len(l.keys))
	for _, key := range l.keys {
		ch <- key
	}
	close(ch)
	return ch
}

func (l *memoryKeyLister) Stop() error { return nil }
