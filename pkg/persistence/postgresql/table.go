package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

type scanner interface {
	Scan(dest ...any) error
}

// table holds the SQL shared by every record table: columns are listed in scan order and
// the first column is always id.
type table[T models.Document] struct {
	db         *sql.DB
	logger     *slog.Logger
	name       string
	columns    []string
	nameColumn string // Column behind the "name" sort
	hasAgent   bool
	scan       func(scanner) (T, error)
	values     func(T) ([]any, error)
}

func (t *table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t *table[T]) upsertSQL() string {
	placeholders := make([]string, len(t.columns))
	updates := make([]string, 0, len(t.columns))

	for i, column := range t.columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)

		if column != "id" && column != "created_at" {
			updates = append(updates, column+" = EXCLUDED."+column)
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.name,
		strings.Join(t.columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

// prepare assigns an id and timestamps before a save.
func (t *table[T]) prepare(doc T) error {
	base := doc.Base()

	if base.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate %s ID: %w", t.name, err)
		}

		base.ID = id.String()
	}

	base.Touch(time.Now().UTC())

	return nil
}

func (t *table[T]) save(ctx context.Context, exec interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, doc T) error {
	args, err := t.values(doc)
	if err != nil {
		return persistence.NewRecordError("Save", t.name, doc.Base().ID, err)
	}

	_, err = exec.ExecContext(ctx, t.upsertSQL(), args...)
	if err != nil {
		return persistence.NewRecordError("Save", t.name, doc.Base().ID, err)
	}

	return nil
}

func (t *table[T]) getByID(ctx context.Context, id string) (T, error) {
	row := t.db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = $1", id)

	doc, err := t.scan(row)
	if err != nil {
		var zero T

		if errors.Is(err, sql.ErrNoRows) {
			return zero, persistence.NewRecordError("GetByID", t.name, id, persistence.NotFoundFor(t.name))
		}

		return zero, persistence.NewRecordError("GetByID", t.name, id, err)
	}

	return doc, nil
}

func (t *table[T]) delete(ctx context.Context, id string) error {
	_, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
	if err != nil {
		return persistence.NewRecordError("Delete", t.name, id, err)
	}

	return nil
}

// where builds the filter clause for list options.
func (t *table[T]) where(opts persistence.ListOptions) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if opts.OwnerID != "" {
		add("owner_id = $%d", opts.OwnerID)
	}

	if opts.IsActive != nil {
		add("is_active = $%d", *opts.IsActive)
	}

	if opts.AgentID != "" {
		if !t.hasAgent {
			conditions = append(conditions, "FALSE")
		} else {
			add("agent_id = $%d", opts.AgentID)
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (t *table[T]) list(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[T], error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	where, args := t.where(opts)

	var totalCount int64

	err = t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, persistence.NewRecordError("List", t.name, "", fmt.Errorf("failed to count: %w", err))
	}

	// Sort column and order come from the allowlist in Normalize.
	sortColumn := opts.SortBy
	if sortColumn == persistence.SortName {
		sortColumn = t.nameColumn
	}

	order := strings.ToUpper(opts.SortOrder)
	query := fmt.Sprintf("%s%s ORDER BY %s %s, id %s LIMIT %d OFFSET %d",
		t.selectSQL(), where, sortColumn, order, order, opts.Limit, opts.Offset)

	items, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &persistence.ListResult[T]{
		Items:       items,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(items)) < totalCount,
	}, nil
}

func (t *table[T]) listByAgent(ctx context.Context, agentID string) ([]T, error) {
	return t.query(ctx, t.selectSQL()+" WHERE agent_id = $1 ORDER BY created_at, id", agentID)
}

func (t *table[T]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence.NewRecordError("List", t.name, "", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			t.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	items := make([]T, 0)

	for rows.Next() {
		doc, err := t.scan(rows)
		if err != nil {
			return nil, persistence.NewRecordError("List", t.name, "", fmt.Errorf("failed to scan: %w", err))
		}

		items = append(items, doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewRecordError("List", t.name, "", err)
	}

	return items, nil
}

// marshalJSON encodes a JSONB column value. lib/pq sends []byte as bytea, so the value
// is passed as text.
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json column: %w", err)
	}

	return string(data), nil
}

func unmarshalJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}

	err := json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time.UTC()

	return &v
}
