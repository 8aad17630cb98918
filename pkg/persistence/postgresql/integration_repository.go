package postgresql

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// IntegrationRepository handles platform integration database operations. Tokens are
// stored exactly as given; sealing happens in the service layer.
type IntegrationRepository struct {
	table *table[*models.Integration]
}

func NewIntegrationRepository(db *sql.DB, logger *slog.Logger) *IntegrationRepository {
	return &IntegrationRepository{table: &table[*models.Integration]{
		db:     db,
		logger: logger,
		name:   persistence.CollectionIntegrations,
		columns: []string{
			"id", "owner_id", "platform_id", "platform_name", "access_token", "refresh_token",
			"token_expiry", "metadata", "is_active", "created_at", "updated_at",
		},
		nameColumn: "platform_name",
		scan:       scanIntegration,
		values:     integrationValues,
	}}
}

func scanIntegration(row scanner) (*models.Integration, error) {
	var (
		integration models.Integration
		tokenExpiry sql.NullTime
		metadata    []byte
	)

	err := row.Scan(
		&integration.ID,
		&integration.OwnerID,
		&integration.PlatformID,
		&integration.PlatformName,
		&integration.AccessToken,
		&integration.RefreshToken,
		&tokenExpiry,
		&metadata,
		&integration.IsActive,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	integration.TokenExpiry = timePtr(tokenExpiry)
	integration.CreatedAt = integration.CreatedAt.UTC()
	integration.UpdatedAt = integration.UpdatedAt.UTC()

	err = unmarshalJSON(metadata, &integration.Metadata)
	if err != nil {
		return nil, err
	}

	return &integration, nil
}

func integrationValues(integration *models.Integration) ([]any, error) {
	metadata, err := marshalJSON(integration.Metadata)
	if err != nil {
		return nil, err
	}

	return []any{
		integration.ID,
		integration.OwnerID,
		integration.PlatformID,
		integration.PlatformName,
		integration.AccessToken,
		integration.RefreshToken,
		integration.TokenExpiry,
		metadata,
		integration.IsActive,
		integration.CreatedAt,
		integration.UpdatedAt,
	}, nil
}

func (r *IntegrationRepository) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[*models.Integration], error) {
	return r.table.list(ctx, opts)
}

func (r *IntegrationRepository) GetByID(ctx context.Context, id string) (*models.Integration, error) {
	return r.table.getByID(ctx, id)
}

func (r *IntegrationRepository) Save(ctx context.Context, integration *models.Integration) error {
	err := r.table.prepare(integration)
	if err != nil {
		return err
	}

	return r.table.save(ctx, r.table.db, integration)
}

func (r *IntegrationRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}
