// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

// Entity key prefixes
const (
	KeyPrefixEvent       = "event"
	KeyPrefixIntegration = "integration"
	KeyPrefixMeeting     = "meeting"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds the encoded key of an entity, e.g. "event/<id>".
// Ids come from callers and may hold characters NATS keys reject.
func (kb *KeyBuilder) EntityKey(entityType, id string) string {
	return kb.encoded(entityType, id)
}

// IntegrationKey builds the encoded key of a user's integration for one
// app kind
func (kb *KeyBuilder) IntegrationKey(userID, appKind string) string {
	return kb.encoded(KeyPrefixIntegration, userID, appKind)
}

// IntegrationUserPrefix is the decoded key prefix of every integration of
// the user, for ListEntitiesEncoded
func (kb *KeyBuilder) IntegrationUserPrefix(userID string) string {
	return "/" + kb.join(KeyPrefixIntegration, userID) + "/"
}

// IntegrationPrefix is the decoded key prefix of every integration
func (kb *KeyBuilder) IntegrationPrefix() string {
	return "/" + kb.join(KeyPrefixIntegration) + "/"
}

func (kb *KeyBuilder) join(parts ...string) string {
	key := strings.Join(parts, "/")
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", kb.prefix, key)
}

func (kb *KeyBuilder) encoded(parts ...string) string {
	fullKey := kb.join(parts...)
	encodedKey, err := kb.EncodeKey(fullKey)
	if err != nil {
		slog.Error("error encoding key", logging.ErrKey, err, "key", fullKey)
		return fullKey
	}
	return encodedKey
}

// EncodeKey encodes each "/" separated part with URL-safe base64 so the
// key only holds characters NATS accepts. Adapted from
// https://github.com/ripienaar/encodedkv
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(strings.TrimPrefix(key, "/"), "/") {
		if part == "" {
			continue
		}
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}

		dst := make([]byte, base64.URLEncoding.EncodedLen(len(part)))
		base64.URLEncoding.Encode(dst, []byte(part))
		res = append(res, string(dst))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return strings.Join(res, "."), nil
}

// DecodeKey reverses EncodeKey, returning the key with a leading "/".
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(key, ".") {
		k, err := base64.URLEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}

		res = append(res, string(k))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return fmt.Sprintf("/%s", strings.Join(res, "/")), nil
}
