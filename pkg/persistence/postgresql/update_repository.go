package postgresql

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// UpdateRepository handles business update database operations.
type UpdateRepository struct {
	table *table[*models.Update]
}

func NewUpdateRepository(db *sql.DB, logger *slog.Logger) *UpdateRepository {
	return &UpdateRepository{table: &table[*models.Update]{
		db:     db,
		logger: logger,
		name:   persistence.CollectionUpdates,
		columns: []string{
			"id", "owner_id", "title", "content", "category", "is_active",
			"scheduled_at", "published_at", "created_at", "updated_at",
		},
		nameColumn: "title",
		scan:       scanUpdate,
		values:     updateValues,
	}}
}

func scanUpdate(row scanner) (*models.Update, error) {
	var (
		update      models.Update
		scheduledAt sql.NullTime
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&update.ID,
		&update.OwnerID,
		&update.Title,
		&update.Content,
		&update.Category,
		&update.IsActive,
		&scheduledAt,
		&publishedAt,
		&update.CreatedAt,
		&update.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	update.ScheduledAt = timePtr(scheduledAt)
	update.PublishedAt = timePtr(publishedAt)
	update.CreatedAt = update.CreatedAt.UTC()
	update.UpdatedAt = update.UpdatedAt.UTC()

	return &update, nil
}

func updateValues(update *models.Update) ([]any, error) {
	return []any{
		update.ID,
		update.OwnerID,
		update.Title,
		update.Content,
		update.Category,
		update.IsActive,
		update.ScheduledAt,
		update.PublishedAt,
		update.CreatedAt,
		update.UpdatedAt,
	}, nil
}

func (r *UpdateRepository) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[*models.Update], error) {
	return r.table.list(ctx, opts)
}

func (r *UpdateRepository) GetByID(ctx context.Context, id string) (*models.Update, error) {
	return r.table.getByID(ctx, id)
}

func (r *UpdateRepository) Save(ctx context.Context, update *models.Update) error {
	err := r.table.prepare(update)
	if err != nil {
		return err
	}

	return r.table.save(ctx, r.table.db, update)
}

func (r *UpdateRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}
