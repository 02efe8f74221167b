// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// User status constants for Zoom API
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// ZoomUser represents a Zoom user
type ZoomUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Type      int    `json:"type"`
	Status    string `json:"status"`
	Timezone  string `json:"timezone"`
}

// GetUser retrieves a user, CurrentUser for the token owner
func (c *Client) GetUser(ctx context.Context, accessToken, userID string) (*ZoomUser, error) {
	var user ZoomUser
	path := fmt.Sprintf("/users/%s", url.PathEscape(userID))
	if err := c.http.Do(ctx, http.MethodGet, path, accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
