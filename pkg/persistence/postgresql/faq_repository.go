package postgresql

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// FAQRepository handles FAQ database operations.
type FAQRepository struct {
	table *table[*models.FAQ]
}

func NewFAQRepository(db *sql.DB, logger *slog.Logger) *FAQRepository {
	return &FAQRepository{table: &table[*models.FAQ]{
		db:     db,
		logger: logger,
		name:   persistence.CollectionFAQs,
		columns: []string{
			"id", "owner_id", "question", "answer", "keywords", "agent_id", "category",
			"is_active", "created_at", "updated_at",
		},
		nameColumn: "question",
		hasAgent:   true,
		scan:       scanFAQ,
		values:     faqValues,
	}}
}

func scanFAQ(row scanner) (*models.FAQ, error) {
	var (
		faq      models.FAQ
		keywords []byte
		agentID  sql.NullString
	)

	err := row.Scan(
		&faq.ID,
		&faq.OwnerID,
		&faq.Question,
		&faq.Answer,
		&keywords,
		&agentID,
		&faq.Category,
		&faq.IsActive,
		&faq.CreatedAt,
		&faq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	faq.AgentID = stringPtr(agentID)
	faq.CreatedAt = faq.CreatedAt.UTC()
	faq.UpdatedAt = faq.UpdatedAt.UTC()

	err = unmarshalJSON(keywords, &faq.Keywords)
	if err != nil {
		return nil, err
	}

	return &faq, nil
}

func faqValues(faq *models.FAQ) ([]any, error) {
	keywords := faq.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	keywordsJSON, err := marshalJSON(keywords)
	if err != nil {
		return nil, err
	}

	return []any{
		faq.ID,
		faq.OwnerID,
		faq.Question,
		faq.Answer,
		keywordsJSON,
		nullString(faq.AgentID),
		faq.Category,
		faq.IsActive,
		faq.CreatedAt,
		faq.UpdatedAt,
	}, nil
}

func (r *FAQRepository) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[*models.FAQ], error) {
	return r.table.list(ctx, opts)
}

func (r *FAQRepository) ListByAgent(ctx context.Context, agentID string) ([]*models.FAQ, error) {
	return r.table.listByAgent(ctx, agentID)
}

func (r *FAQRepository) GetByID(ctx context.Context, id string) (*models.FAQ, error) {
	return r.table.getByID(ctx, id)
}

func (r *FAQRepository) Save(ctx context.Context, faq *models.FAQ) error {
	err := r.table.prepare(faq)
	if err != nil {
		return err
	}

	return r.table.save(ctx, r.table.db, faq)
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}
