// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Integration is a user's stored OAuth credential for one app kind.
type Integration struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	ProviderKind      ProviderKind `json:"provider_kind"`
	AppKind           AppKind      `json:"app_kind"`
	AccessToken       string       `json:"access_token"`
	RefreshToken      string       `json:"refresh_token,omitempty"`
	ExpiryEpochMillis *int64       `json:"expiry_epoch_millis"`
	CalendarID        string       `json:"calendar_id,omitempty"`
	ProviderUserID    string       `json:"provider_user_id,omitempty"`
	IsConnected       bool         `json:"is_connected"`
	LastCheckedAt     *time.Time   `json:"last_checked_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TokenConfig returns the credential stored on the integration.
func (i *Integration) TokenConfig() TokenConfig {
	return TokenConfig{
		AccessToken:       i.AccessToken,
		RefreshToken:      i.RefreshToken,
		ExpiryEpochMillis: i.ExpiryEpochMillis,
	}
}

// ApplyToken rewrites the stored credential after a refresh. A refresh
// response without a new refresh token keeps the existing one.
func (i *Integration) ApplyToken(token TokenConfig, now time.Time) {
	i.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		i.RefreshToken = token.RefreshToken
	}
	i.ExpiryEpochMillis = token.ExpiryEpochMillis
	i.UpdatedAt = now
}

// IntegrationStatus is the connection state of one app kind for a user.
type IntegrationStatus struct {
	AppKind       AppKind    `json:"app_kind"`
	Connected     bool       `json:"connected"`
	CalendarID    string     `json:"calendar_id,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

// IntegrationHealth is the outcome of probing one integration.
type IntegrationHealth struct {
	IntegrationID string  `json:"integration_id"`
	UserID        string  `json:"user_id"`
	AppKind       AppKind `json:"app_kind"`
	Healthy       bool    `json:"healthy"`
	Error         string  `json:"error,omitempty"`
}
