// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates the Heimdall-issued JWTs presented to the API.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

const (
	// PS256 is the algorithm Heimdall signs with.
	PS256 = validator.PS256

	defaultIssuer   = "heimdall"
	defaultAudience = "lfx-v2-booking-service"
	defaultJWKSURL  = "http://heimdall:4457/.well-known/jwks"

	jwksCacheTTL = 5 * time.Minute
	clockSkew    = 5 * time.Second
)

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined
// in HeimdallClaims.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig holds the JWT validation settings.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the JWKS endpoint
	JWKSURL string
	// Audience is the expected audience of the token
	Audience string
	// MockLocalPrincipal skips validation and authenticates every request
	// as this principal. Only for local development.
	MockLocalPrincipal string
}

// JWTAuth validates bearer tokens and extracts the principal.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// NewJWTAuth creates a JWT validator backed by a caching JWKS provider.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	jwksURLStr := config.JWKSURL
	if jwksURLStr == "" {
		jwksURLStr = defaultJWKSURL
	}
	jwksURL, err := url.Parse(jwksURLStr)
	if err != nil {
		return nil, err
	}

	audience := config.Audience
	if audience == "" {
		audience = defaultAudience
	}

	issuer, err := url.Parse(defaultIssuer)
	if err != nil {
		return nil, err
	}
	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		PS256,
		defaultIssuer,
		[]string{audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(clockSkew),
	)
	if err != nil {
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal validates the token and returns its principal.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT validation is disabled, using mock local principal",
			"principal", j.config.MockLocalPrincipal,
		)
		return j.config.MockLocalPrincipal, nil
	}

	if j.validator == nil {
		return "", domain.NewUnavailableError("JWT validator is not set up")
	}

	token = strings.TrimPrefix(token, "Bearer ")
	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "authorization failed", logging.ErrKey, err)
		return "", domain.NewUnauthorizedError("invalid token", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", domain.NewUnauthorizedError("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", domain.NewUnauthorizedError("failed to get custom authorization claims")
	}

	return customClaims.Principal, nil
}
