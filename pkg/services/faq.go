package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

type FAQ struct {
	base
}

// NewFAQ creates a new FAQ service.
func NewFAQ(p persistence.Persistence, opts ...Option) *FAQ {
	return &FAQ{base: newBase(p, opts)}
}

func (s *FAQ) List(ctx context.Context, req ListRequest) (*persistence.ListResult[*models.FAQ], error) {
	ctx, span := s.startSpan(ctx, "faqs.list", attribute.String(otelhelper.OwnerIDKey, req.OwnerID))

	result, err := list[*models.FAQ](ctx, s.persistence.FAQs(), "ListFAQs", req)
	finish(span, err)

	return result, err
}

func (s *FAQ) FetchByID(ctx context.Context, id string) (*models.FAQ, error) {
	return s.persistence.FAQs().GetByID(ctx, id)
}

// Create stores a new, active FAQ entry.
func (s *FAQ) Create(ctx context.Context, faq *models.FAQ) (result *models.FAQ, err error) {
	ctx, span := s.startSpan(ctx, "faqs.create", attribute.String(otelhelper.OwnerIDKey, faq.OwnerID))
	defer func() { finish(span, err) }()

	faq.ID = ""
	faq.IsActive = true

	err = s.check(ctx, "CreateFAQ", faq)
	if err != nil {
		return nil, err
	}

	err = save[*models.FAQ](ctx, s.persistence.FAQs(), faq)
	if err != nil {
		return nil, err
	}

	return faq, nil
}

func (s *FAQ) Update(ctx context.Context, id string, changes *models.FAQ) (result *models.FAQ, err error) {
	ctx, span := s.startSpan(ctx, "faqs.update", attribute.String(otelhelper.FAQIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.FAQs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Question = changes.Question
	existing.Answer = changes.Answer
	existing.Keywords = changes.Keywords
	existing.AgentID = changes.AgentID
	existing.Category = changes.Category

	err = s.check(ctx, "UpdateFAQ", existing)
	if err != nil {
		return nil, err
	}

	err = save[*models.FAQ](ctx, s.persistence.FAQs(), existing)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *FAQ) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "faqs.delete", attribute.String(otelhelper.FAQIDKey, id))
	defer func() { finish(span, err) }()

	_, err = s.persistence.FAQs().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.FAQs().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}

	return nil
}

func (s *FAQ) Toggle(ctx context.Context, id string) (result *models.FAQ, err error) {
	ctx, span := s.startSpan(ctx, "faqs.toggle", attribute.String(otelhelper.FAQIDKey, id))
	defer func() { finish(span, err) }()

	faq, err := s.persistence.FAQs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	faq.IsActive = !faq.IsActive

	err = save[*models.FAQ](ctx, s.persistence.FAQs(), faq)
	if err != nil {
		return nil, err
	}

	return faq, nil
}

func (s *FAQ) check(ctx context.Context, op string, faq *models.FAQ) error {
	if faq.Keywords == nil {
		faq.Keywords = make([]string, 0)
	}

	err := s.validate(op, faq)
	if err != nil {
		return err
	}

	return requireAgent(ctx, s.persistence, op, faq.AgentID)
}
