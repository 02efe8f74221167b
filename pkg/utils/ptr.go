// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import "time"

// Int64Ptr converts an int64 to a pointer to an int64.
func Int64Ptr(i int64) *int64 {
	return &i
}

// EpochMillisPtr returns the expiry as epoch milliseconds, or nil for the zero time.
func EpochMillisPtr(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	return Int64Ptr(t.UnixMilli())
}

// TimeFromEpochMillis converts an optional epoch-millisecond value into a time.
func TimeFromEpochMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
