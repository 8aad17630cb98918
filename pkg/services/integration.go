package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/secrets"
)

type Integration struct {
	base

	sealer *secrets.Sealer
}

// NewIntegration creates a new integration service. Tokens are sealed with sealer
// before they reach storage.
func NewIntegration(p persistence.Persistence, sealer *secrets.Sealer, opts ...Option) *Integration {
	return &Integration{base: newBase(p, opts), sealer: sealer}
}

// ConnectRequest carries the plaintext credentials of a new platform account.
type ConnectRequest struct {
	OwnerID      string
	PlatformID   string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
	ProfileName  string
}

// RefreshRequest carries rotated credentials. Empty tokens keep the stored ones.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
}

// Credentials are the plaintext tokens of an integration.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Platforms returns the catalogue of connectable platforms.
func (s *Integration) Platforms() []models.Platform {
	return models.Platforms()
}

func (s *Integration) List(ctx context.Context, req ListRequest) (*persistence.ListResult[*models.Integration], error) {
	ctx, span := s.startSpan(ctx, "integrations.list", attribute.String(otelhelper.OwnerIDKey, req.OwnerID))

	result, err := list[*models.Integration](ctx, s.persistence.Integrations(), "ListIntegrations", req)
	finish(span, err)

	return result, err
}

func (s *Integration) FetchByID(ctx context.Context, id string) (*models.Integration, error) {
	return s.persistence.Integrations().GetByID(ctx, id)
}

// Connect stores a new active integration with sealed tokens.
func (s *Integration) Connect(ctx context.Context, req ConnectRequest) (result *models.Integration, err error) {
	ctx, span := s.startSpan(ctx, "integrations.connect",
		attribute.String(otelhelper.OwnerIDKey, req.OwnerID),
		attribute.String(otelhelper.PlatformIDKey, req.PlatformID))
	defer func() { finish(span, err) }()

	platform, ok := models.PlatformByID(req.PlatformID)
	if !ok {
		return nil, NewValidationError("ConnectIntegration", "UNKNOWN_PLATFORM",
			fmt.Sprintf("unknown platform '%s'", req.PlatformID), ErrUnknownPlatform)
	}

	integration := &models.Integration{
		Record:       models.Record{OwnerID: req.OwnerID, IsActive: true},
		PlatformID:   platform.ID,
		PlatformName: platform.Name,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  req.TokenExpiry,
		Metadata:     map[string]any{},
	}

	if req.ProfileName != "" {
		integration.Metadata[models.MetadataProfileName] = req.ProfileName
	}

	err = s.validate("ConnectIntegration", integration)
	if err != nil {
		return nil, err
	}

	err = s.seal(&integration.AccessToken, &integration.RefreshToken)
	if err != nil {
		return nil, err
	}

	err = save[*models.Integration](ctx, s.persistence.Integrations(), integration)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "integration connected",
		"integration_id", integration.ID,
		"platform_id", integration.PlatformID)
	s.publish(ctx, integration.ID, events.NewIntegrationChanged(
		events.IntegrationConnectedEvent, integration.ID, integration.OwnerID, integration.PlatformID))

	return integration, nil
}

// Disconnect removes an integration and its stored tokens.
func (s *Integration) Disconnect(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "integrations.disconnect", attribute.String(otelhelper.IntegrationIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Integrations().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.Integrations().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	s.publish(ctx, id, events.NewIntegrationChanged(
		events.IntegrationDisconnectedEvent, id, existing.OwnerID, existing.PlatformID))

	return nil
}

// Refresh stores rotated tokens, when given, and records the sync time.
func (s *Integration) Refresh(ctx context.Context, id string, req RefreshRequest) (result *models.Integration, err error) {
	ctx, span := s.startSpan(ctx, "integrations.refresh", attribute.String(otelhelper.IntegrationIDKey, id))
	defer func() { finish(span, err) }()

	integration, err := s.persistence.Integrations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	access, refresh := req.AccessToken, req.RefreshToken

	err = s.seal(&access, &refresh)
	if err != nil {
		return nil, err
	}

	if access != "" {
		integration.AccessToken = access
	}

	if refresh != "" {
		integration.RefreshToken = refresh
	}

	if req.TokenExpiry != nil {
		integration.TokenExpiry = req.TokenExpiry
	}

	if integration.Metadata == nil {
		integration.Metadata = map[string]any{}
	}

	integration.Metadata[models.MetadataLastSync] = s.now().Format(time.RFC3339)

	err = save[*models.Integration](ctx, s.persistence.Integrations(), integration)
	if err != nil {
		return nil, err
	}

	return integration, nil
}

func (s *Integration) Toggle(ctx context.Context, id string) (result *models.Integration, err error) {
	ctx, span := s.startSpan(ctx, "integrations.toggle", attribute.String(otelhelper.IntegrationIDKey, id))
	defer func() { finish(span, err) }()

	integration, err := s.persistence.Integrations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	integration.IsActive = !integration.IsActive

	err = save[*models.Integration](ctx, s.persistence.Integrations(), integration)
	if err != nil {
		return nil, err
	}

	return integration, nil
}

// Credentials opens the stored tokens of an integration.
func (s *Integration) Credentials(ctx context.Context, id string) (*Credentials, error) {
	integration, err := s.persistence.Integrations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	access, err := s.sealer.Open(integration.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open access token: %w", err)
	}

	credentials := &Credentials{AccessToken: access}

	if integration.RefreshToken != "" {
		credentials.RefreshToken, err = s.sealer.Open(integration.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to open refresh token: %w", err)
		}
	}

	return credentials, nil
}

// seal encrypts request tokens in place. Empty tokens stay empty.
func (s *Integration) seal(tokens ...*string) error {
	for _, token := range tokens {
		if *token == "" {
			continue
		}

		sealed, err := s.sealer.Seal(*token)
		if err != nil {
			return fmt.Errorf("failed to seal token: %w", err)
		}

		*token = sealed
	}

	return nil
}
