// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from a provider REST API.
type APIError struct {
	Provider   string
	StatusCode int
	// Code is the vendor error code, e.g. "3001" for Zoom or
	// "ErrorItemNotFound" for Microsoft Graph.
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.Code != "" {
		return fmt.Sprintf("%s API error (status %d, code %s): %s", e.Provider, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, msg)
}

// notFoundCodes are vendor codes meaning the resource no longer exists even
// when the status code says otherwise.
var notFoundCodes = map[string]bool{
	"3001":              true, // Zoom: meeting does not exist
	"ErrorItemNotFound": true, // Graph
	"deleted":           true, // Google: resource already deleted
}

// IsNotFound reports whether err is a provider response saying the resource
// is already gone.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusGone {
		return true
	}
	return notFoundCodes[apiErr.Code]
}

// IsUnauthorized reports whether the provider rejected the access token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
