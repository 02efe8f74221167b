// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/utils"
)

// NeverExpiresEpochMillis is stored as the expiry of a token whose issuer
// refreshed it without reporting a lifetime (9999-12-31T23:59:59Z).
const NeverExpiresEpochMillis int64 = 253402300799000

// TokenConfig is the OAuth credential a provider call is made with.
type TokenConfig struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiryEpochMillis is nil when the issuer did not report an expiry.
	ExpiryEpochMillis *int64 `json:"expiry_epoch_millis,omitempty"`
}

// Expiry returns the expiry as a time, or nil when unknown.
func (t TokenConfig) Expiry() *time.Time {
	return utils.TimeFromEpochMillis(t.ExpiryEpochMillis)
}

// NeedsRefresh reports whether the token must be refreshed before use.
// An unknown expiry only forces a refresh when a refresh token is available;
// without one the token is assumed to never expire.
func (t TokenConfig) NeedsRefresh(now time.Time, margin time.Duration) bool {
	if t.AccessToken == "" {
		return t.RefreshToken != ""
	}
	expiry := t.Expiry()
	if expiry == nil {
		return t.RefreshToken != ""
	}
	return !now.Add(margin).Before(*expiry)
}
