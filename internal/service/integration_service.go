// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/strategy"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/utils"
)

// healthProbe names the provider whose capability check exercises an app
// kind's credential.
type healthProbe struct {
	provider string
	calendar bool
}

var healthProbes = map[models.AppKind]healthProbe{
	models.AppKindZoomMeeting:           {provider: models.ProviderZoom},
	models.AppKindGoogleMeetAndCalendar: {provider: models.ProviderGoogleCalendar, calendar: true},
	models.AppKindOutlookCalendar:       {provider: models.ProviderOutlookCalendar, calendar: true},
	models.AppKindMicrosoftTeams:        {provider: models.ProviderMicrosoftTeams},
}

// IntegrationService stores and checks users' connected applications.
type IntegrationService struct {
	IntegrationRepository domain.IntegrationRepository
	Providers             domain.ProviderRegistry
	Tokens                *strategy.TokenResolver
	Config                ServiceConfig

	now func() time.Time
}

// NewIntegrationService creates a new IntegrationService.
func NewIntegrationService(
	integrations domain.IntegrationRepository,
	providers domain.ProviderRegistry,
	tokens *strategy.TokenResolver,
	config ServiceConfig,
) *IntegrationService {
	return &IntegrationService{
		IntegrationRepository: integrations,
		Providers:             providers,
		Tokens:                tokens,
		Config:                config.withDefaults(),
		now:                   time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *IntegrationService) ServiceReady() bool {
	return s.IntegrationRepository != nil &&
		s.Providers != nil &&
		s.Tokens != nil
}

func (s *IntegrationService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// ConnectIntegration stores the tokens obtained by an OAuth callback. A user
// connects each app kind once; connecting again is a Conflict unless the
// stored integration was disconnected, in which case it is reauthorized.
func (s *IntegrationService) ConnectIntegration(ctx context.Context, req *models.ConnectIntegrationRequest) (*models.Integration, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("integration service is not ready")
	}
	if req == nil || strings.TrimSpace(req.UserID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if !req.AppKind.IsValid() {
		return nil, domain.NewValidationError("unknown app_kind " + string(req.AppKind))
	}
	if strings.TrimSpace(req.AccessToken) == "" {
		return nil, domain.NewValidationError("access_token is required")
	}
	ctx = logging.AppendCtx(ctx,
		slog.String(logging.UserIDKey, req.UserID),
		slog.String("app_kind", string(req.AppKind)),
	)

	now := s.clock()
	integration := &models.Integration{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		ProviderKind:      req.AppKind.ProviderKind(),
		AppKind:           req.AppKind,
		AccessToken:       req.AccessToken,
		RefreshToken:      req.RefreshToken,
		ExpiryEpochMillis: req.ExpiryEpochMillis,
		CalendarID:        strings.TrimSpace(req.CalendarID),
		ProviderUserID:    req.ProviderUserID,
		IsConnected:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := s.IntegrationRepository.CreateIntegration(ctx, integration)
	if err == nil {
		slog.InfoContext(ctx, "integration connected")
		return integration, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeConflict {
		slog.ErrorContext(ctx, "failed to store integration", logging.ErrKey, err)
		return nil, err
	}

	existing, getErr := s.IntegrationRepository.GetIntegration(ctx, req.UserID, req.AppKind)
	if getErr != nil {
		return nil, getErr
	}
	if existing.IsConnected {
		slog.WarnContext(ctx, "integration already connected")
		return nil, domain.NewConflictError("integration " + string(req.AppKind) + " is already connected")
	}

	integration.ID = existing.ID
	integration.CreatedAt = existing.CreatedAt
	integration.CalendarID = utils.CoalesceString(integration.CalendarID, existing.CalendarID)
	if err := s.IntegrationRepository.UpdateIntegration(ctx, integration); err != nil {
		slog.ErrorContext(ctx, "failed to reauthorize integration", logging.ErrKey, err)
		return nil, err
	}
	slog.InfoContext(ctx, "integration reauthorized")
	return integration, nil
}

// ListIntegrations returns the connection status of every app kind for a user.
func (s *IntegrationService) ListIntegrations(ctx context.Context, userID string) ([]models.IntegrationStatus, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("integration service is not ready")
	}
	stored, err := s.IntegrationRepository.ListIntegrations(ctx, userID)
	if err != nil {
		return nil, err
	}

	byKind := make(map[models.AppKind]*models.Integration, len(stored))
	for _, integration := range stored {
		byKind[integration.AppKind] = integration
	}

	statuses := make([]models.IntegrationStatus, 0, len(models.AllAppKinds))
	for _, kind := range models.AllAppKinds {
		status := models.IntegrationStatus{AppKind: kind}
		if integration, ok := byKind[kind]; ok {
			status.Connected = integration.IsConnected
			status.CalendarID = integration.CalendarID
			status.LastCheckedAt = integration.LastCheckedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// CheckIntegrationHealth validates the token of every connected integration
// and runs its provider's capability probe. Integrations whose refresh grant
// is rejected are marked disconnected so users are asked to reconnect.
func (s *IntegrationService) CheckIntegrationHealth(ctx context.Context) ([]models.IntegrationHealth, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("integration service is not ready")
	}
	all, err := s.IntegrationRepository.ListAllIntegrations(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list integrations for health check", logging.ErrKey, err)
		return nil, err
	}

	connected := make([]*models.Integration, 0, len(all))
	for _, integration := range all {
		if integration.IsConnected {
			connected = append(connected, integration)
		}
	}

	results := make([]models.IntegrationHealth, len(connected))
	checks := make([]func() error, len(connected))
	for i, integration := range connected {
		checks[i] = func() error {
			results[i] = s.checkIntegration(ctx, integration)
			return nil
		}
	}
	concurrent.NewWorkerPool(s.Config.HealthCheckWorkers).RunAll(ctx, checks...)

	unhealthy := 0
	for _, r := range results {
		if !r.Healthy {
			unhealthy++
		}
	}
	slog.InfoContext(ctx, "integration health check finished", "checked", len(results), "unhealthy", unhealthy)
	return results, nil
}

func (s *IntegrationService) checkIntegration(ctx context.Context, integration *models.Integration) models.IntegrationHealth {
	ctx = logging.AppendCtx(ctx,
		slog.String(logging.UserIDKey, integration.UserID),
		slog.String("app_kind", string(integration.AppKind)),
	)
	health := models.IntegrationHealth{
		IntegrationID: integration.ID,
		UserID:        integration.UserID,
		AppKind:       integration.AppKind,
	}

	validator, probe, err := s.probeFor(integration)
	if err != nil {
		slog.DebugContext(ctx, "no probe for integration", logging.ErrKey, err)
		health.Error = err.Error()
		return health
	}

	token, err := s.Tokens.ValidToken(ctx, integration, validator)
	if err != nil {
		health.Error = err.Error()
		if domain.IsGrantRejected(err) {
			s.recordCheck(ctx, integration, true)
			slog.WarnContext(ctx, "integration marked disconnected", logging.ErrKey, err)
			return health
		}
		// Transient refresh failures leave the integration connected.
		if domain.GetErrorType(err) == domain.ErrorTypeTokenRefresh {
			s.recordCheck(ctx, integration, false)
		}
		return health
	}

	ok, err := probe(ctx, token)
	switch {
	case err != nil:
		health.Error = err.Error()
	case !ok:
		health.Error = "provider reports the account cannot be used for bookings"
	default:
		health.Healthy = true
	}
	s.recordCheck(ctx, integration, false)
	return health
}

type probeFunc func(ctx context.Context, token models.TokenConfig) (bool, error)

func (s *IntegrationService) probeFor(integration *models.Integration) (domain.TokenValidator, probeFunc, error) {
	p, ok := healthProbes[integration.AppKind]
	if !ok {
		return nil, nil, domain.NewValidationError("unknown app kind " + string(integration.AppKind))
	}

	if p.calendar {
		provider, err := s.Providers.CalendarProvider(p.provider)
		if err != nil {
			return nil, nil, err
		}
		calendarID := utils.CoalesceString(integration.CalendarID, constants.DefaultCalendarID)
		return provider, func(ctx context.Context, token models.TokenConfig) (bool, error) {
			_, err := provider.GetCalendarInfo(ctx, calendarID, token)
			return err == nil, err
		}, nil
	}

	provider, err := s.Providers.MeetingProvider(p.provider)
	if err != nil {
		return nil, nil, err
	}
	return provider, func(ctx context.Context, token models.TokenConfig) (bool, error) {
		return provider.CanCreateMeetings(ctx, integration.UserID, token)
	}, nil
}

// recordCheck stamps the check time, and the disconnect when asked, on the
// stored integration. It re-reads the record first so tokens rotated by a
// concurrent booking during the check are not overwritten.
func (s *IntegrationService) recordCheck(ctx context.Context, integration *models.Integration, disconnect bool) {
	current, err := s.IntegrationRepository.GetIntegration(ctx, integration.UserID, integration.AppKind)
	if err != nil {
		slog.WarnContext(ctx, "failed to re-read integration for check", logging.ErrKey, err)
		return
	}
	if current.ID != integration.ID {
		slog.DebugContext(ctx, "integration replaced during check, skipping record")
		return
	}

	checkedAt := s.clock()
	current.LastCheckedAt = &checkedAt
	if disconnect {
		if current.RefreshToken == integration.RefreshToken {
			current.IsConnected = false
		} else {
			slog.InfoContext(ctx, "credentials rotated during check, leaving integration connected")
		}
	}
	if err := s.IntegrationRepository.UpdateIntegration(ctx, current); err != nil {
		slog.WarnContext(ctx, "failed to record integration check", logging.ErrKey, err)
		return
	}
	*integration = *current
}
