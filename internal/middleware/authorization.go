// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// AuthorizationMiddleware stores the bearer token, without its scheme, and
// any on-behalf-of principal in the request context. Validation happens in
// the handlers that require a principal.
func AuthorizationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get(constants.AuthorizationHeader); header != "" {
				token := header
				if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
					token = strings.TrimSpace(rest)
				}
				ctx = context.WithValue(ctx, constants.AuthorizationContextID, token)
			}

			if onBehalfOf := r.Header.Get(constants.XOnBehalfOfHeader); onBehalfOf != "" {
				ctx = context.WithValue(ctx, constants.PrincipalContextID, onBehalfOf)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
