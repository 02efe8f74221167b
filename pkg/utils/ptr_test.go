// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochMillis(t *testing.T) {
	tests := []struct {
		name   string
		input  time.Time
		expect *int64
	}{
		{
			name:   "zero time maps to nil",
			input:  time.Time{},
			expect: nil,
		},
		{
			name:   "non-zero time maps to millis",
			input:  time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
			expect: Int64Ptr(1741618800000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EpochMillisPtr(tt.input)
			assert.Equal(t, tt.expect, got)

			back := TimeFromEpochMillis(got)
			if tt.expect == nil {
				assert.Nil(t, back)
				return
			}
			require.NotNil(t, back)
			assert.True(t, back.Equal(tt.input))
		})
	}
}
