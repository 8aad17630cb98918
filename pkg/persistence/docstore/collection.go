package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// Collection is a typed repository over one collection of a Store.
type Collection[T models.Document] struct {
	store    Store
	name     string
	newDoc   func() T
	notFound error
	now      func() time.Time
}

// NewCollection creates a repository for the named collection. newDoc must return a
// fresh, non-nil document to decode into.
func NewCollection[T models.Document](store Store, name string, newDoc func() T) *Collection[T] {
	return &Collection[T]{
		store:    store,
		name:     name,
		newDoc:   newDoc,
		notFound: persistence.NotFoundFor(name),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List loads the whole collection and filters, sorts and pages it in memory.
func (c *Collection[T]) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[T], error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	docs, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	return persistence.Paginate(docs, opts), nil
}

// ListByAgent returns every document whose agent reference equals agentID.
func (c *Collection[T]) ListByAgent(ctx context.Context, agentID string) ([]T, error) {
	docs, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	filter := persistence.ListOptions{AgentID: agentID}
	matched := make([]T, 0)

	for _, doc := range docs {
		if filter.Matches(doc) {
			matched = append(matched, doc)
		}
	}

	persistence.SortDocuments(matched, persistence.SortCreatedAt, persistence.SortAsc)

	return matched, nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	body, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return zero, persistence.NewRecordError("GetByID", c.name, id, c.notFound)
		}

		return zero, persistence.NewRecordError("GetByID", c.name, id, err)
	}

	doc, err := c.decode(body)
	if err != nil {
		return zero, persistence.NewRecordError("GetByID", c.name, id, err)
	}

	return doc, nil
}

func (c *Collection[T]) Save(ctx context.Context, doc T) error {
	base := doc.Base()

	if base.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate %s ID: %w", c.name, err)
		}

		base.ID = id.String()
	}

	base.Touch(c.now())

	data, err := json.Marshal(doc)
	if err != nil {
		return persistence.NewRecordError("Save", c.name, base.ID, fmt.Errorf("failed to marshal: %w", err))
	}

	err = c.store.Put(ctx, c.name, base.ID, data)
	if err != nil {
		return persistence.NewRecordError("Save", c.name, base.ID, err)
	}

	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, c.name, id)
	if err != nil {
		return persistence.NewRecordError("Delete", c.name, id, err)
	}

	return nil
}

func (c *Collection[T]) all(ctx context.Context) ([]T, error) {
	bodies, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, persistence.NewRecordError("List", c.name, "", err)
	}

	docs := make([]T, 0, len(bodies))

	for _, body := range bodies {
		doc, err := c.decode(body)
		if err != nil {
			return nil, persistence.NewRecordError("List", c.name, "", err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (c *Collection[T]) decode(body []byte) (T, error) {
	doc := c.newDoc()

	err := json.Unmarshal(body, doc)
	if err != nil {
		var zero T

		return zero, fmt.Errorf("failed to unmarshal %s: %w", c.name, err)
	}

	return doc, nil
}
