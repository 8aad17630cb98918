package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

type Update struct {
	base
}

// NewUpdate creates a new update service.
func NewUpdate(p persistence.Persistence, opts ...Option) *Update {
	return &Update{base: newBase(p, opts)}
}

func (s *Update) List(ctx context.Context, req ListRequest) (*persistence.ListResult[*models.Update], error) {
	ctx, span := s.startSpan(ctx, "updates.list", attribute.String(otelhelper.OwnerIDKey, req.OwnerID))

	result, err := list[*models.Update](ctx, s.persistence.Updates(), "ListUpdates", req)
	finish(span, err)

	return result, err
}

func (s *Update) FetchByID(ctx context.Context, id string) (*models.Update, error) {
	return s.persistence.Updates().GetByID(ctx, id)
}

// Create stores a new, active update. Publication only happens through Publish or
// PublishDue.
func (s *Update) Create(ctx context.Context, update *models.Update) (result *models.Update, err error) {
	ctx, span := s.startSpan(ctx, "updates.create", attribute.String(otelhelper.OwnerIDKey, update.OwnerID))
	defer func() { finish(span, err) }()

	update.ID = ""
	update.IsActive = true
	update.PublishedAt = nil

	err = s.validate("CreateUpdate", update)
	if err != nil {
		return nil, err
	}

	err = save[*models.Update](ctx, s.persistence.Updates(), update)
	if err != nil {
		return nil, err
	}

	return update, nil
}

func (s *Update) Update(ctx context.Context, id string, changes *models.Update) (result *models.Update, err error) {
	ctx, span := s.startSpan(ctx, "updates.update", attribute.String(otelhelper.UpdateIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Updates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = changes.Title
	existing.Content = changes.Content
	existing.Category = changes.Category
	existing.ScheduledAt = changes.ScheduledAt

	err = s.validate("UpdateUpdate", existing)
	if err != nil {
		return nil, err
	}

	err = save[*models.Update](ctx, s.persistence.Updates(), existing)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *Update) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "updates.delete", attribute.String(otelhelper.UpdateIDKey, id))
	defer func() { finish(span, err) }()

	_, err = s.persistence.Updates().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.Updates().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete update: %w", err)
	}

	return nil
}

func (s *Update) Toggle(ctx context.Context, id string) (result *models.Update, err error) {
	ctx, span := s.startSpan(ctx, "updates.toggle", attribute.String(otelhelper.UpdateIDKey, id))
	defer func() { finish(span, err) }()

	update, err := s.persistence.Updates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update.IsActive = !update.IsActive

	err = save[*models.Update](ctx, s.persistence.Updates(), update)
	if err != nil {
		return nil, err
	}

	return update, nil
}

// Publish publishes an update now. Publishing twice is a conflict.
func (s *Update) Publish(ctx context.Context, id string) (result *models.Update, err error) {
	ctx, span := s.startSpan(ctx, "updates.publish", attribute.String(otelhelper.UpdateIDKey, id))
	defer func() { finish(span, err) }()

	update, err := s.persistence.Updates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.PublishedAt != nil {
		return nil, NewConflictError("PublishUpdate", "ALREADY_PUBLISHED", ErrAlreadyPublished, nil)
	}

	err = s.publishNow(ctx, update)
	if err != nil {
		return nil, err
	}

	return update, nil
}

// PublishDue publishes every active update whose schedule has passed and returns how
// many were published.
func (s *Update) PublishDue(ctx context.Context) (published int, err error) {
	ctx, span := s.startSpan(ctx, "updates.publish_due")
	defer func() {
		span.SetAttributes(attribute.Int("flowdesk.updates.published", published))
		finish(span, err)
	}()

	active := true
	now := s.now()

	err = each[*models.Update](ctx, s.persistence.Updates(), persistence.ListOptions{IsActive: &active}, func(update *models.Update) error {
		if !update.IsDue(now) {
			return nil
		}

		publishErr := s.publishNow(ctx, update)
		if publishErr != nil {
			return publishErr
		}

		published++

		return nil
	})
	if err != nil {
		return published, fmt.Errorf("failed to publish due updates: %w", err)
	}

	if published > 0 {
		s.logger.InfoContext(ctx, "published scheduled updates", "count", published)
	}

	return published, nil
}

func (s *Update) publishNow(ctx context.Context, update *models.Update) error {
	update.Publish(s.now())

	err := save[*models.Update](ctx, s.persistence.Updates(), update)
	if err != nil {
		return err
	}

	s.publish(ctx, update.ID, events.NewUpdatePublished(update.ID, update.OwnerID, update.Title, *update.PublishedAt))

	return nil
}
