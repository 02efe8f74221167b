// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func millis(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func TestTokenConfigNeedsRefresh(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    TokenConfig
		margin   time.Duration
		expected bool
	}{
		{
			name:     "valid token far from expiry",
			token:    TokenConfig{AccessToken: "a", RefreshToken: "r", ExpiryEpochMillis: millis(now.Add(time.Hour))},
			margin:   5 * time.Minute,
			expected: false,
		},
		{
			name:     "expired token",
			token:    TokenConfig{AccessToken: "a", RefreshToken: "r", ExpiryEpochMillis: millis(now.Add(-time.Minute))},
			expected: true,
		},
		{
			name:     "inside safety margin",
			token:    TokenConfig{AccessToken: "a", RefreshToken: "r", ExpiryEpochMillis: millis(now.Add(4 * time.Minute))},
			margin:   5 * time.Minute,
			expected: true,
		},
		{
			name:     "expiring exactly now",
			token:    TokenConfig{AccessToken: "a", RefreshToken: "r", ExpiryEpochMillis: millis(now)},
			expected: true,
		},
		{
			name:     "unknown expiry with refresh token",
			token:    TokenConfig{AccessToken: "a", RefreshToken: "r"},
			expected: true,
		},
		{
			name:     "unknown expiry without refresh token never expires",
			token:    TokenConfig{AccessToken: "a"},
			expected: false,
		},
		{
			name:     "missing access token",
			token:    TokenConfig{RefreshToken: "r", ExpiryEpochMillis: millis(now.Add(time.Hour))},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.token.NeedsRefresh(now, tt.margin))
		})
	}
}

func TestIntegrationApplyToken(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	integration := &Integration{AccessToken: "old", RefreshToken: "refresh-1"}

	integration.ApplyToken(TokenConfig{AccessToken: "new", ExpiryEpochMillis: millis(now.Add(time.Hour))}, now)
	assert.Equal(t, "new", integration.AccessToken)
	assert.Equal(t, "refresh-1", integration.RefreshToken, "a refresh without rotation keeps the refresh token")
	assert.Equal(t, now, integration.UpdatedAt)

	integration.ApplyToken(TokenConfig{AccessToken: "newer", RefreshToken: "refresh-2"}, now)
	assert.Equal(t, "refresh-2", integration.RefreshToken)
	assert.Nil(t, integration.ExpiryEpochMillis)
}
