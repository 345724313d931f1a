package service

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/session"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Projects returns the portfolio's visible projects
func (s *PageService) Projects(ctx context.Context, sessionID string) (*CatalogView[models.Project], error) {
	_, span := util.StartSpan(ctx, "PageService.Projects")
	defer span.End()

	var view CatalogView[models.Project]
	_, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		view = projectCatalog(portfolio)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SelectProjectCategory changes the portfolio filter
func (s *PageService) SelectProjectCategory(ctx context.Context, sessionID, category string) (*CatalogView[models.Project], error) {
	_, span := util.StartSpan(ctx, "PageService.SelectProjectCategory")
	defer span.End()

	var view CatalogView[models.Project]
	_, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		if err := portfolio.Selection.Select(category); err != nil {
			return err
		}
		view = projectCatalog(portfolio)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.CategorySelectionsTotal.WithLabelValues("portfolio").Inc()
	return &view, nil
}

// Skills returns the portfolio skill list
func (s *PageService) Skills(ctx context.Context, sessionID string) ([]models.Skill, error) {
	_, span := util.StartSpan(ctx, "PageService.Skills")
	defer span.End()

	var skills []models.Skill
	_, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		skills = append([]models.Skill(nil), portfolio.Skills...)
		return nil
	})
	return skills, err
}

// ContactForm returns the contact form state
func (s *PageService) ContactForm(ctx context.Context, sessionID string) (*FormView, error) {
	_, span := util.StartSpan(ctx, "PageService.ContactForm")
	defer span.End()

	var view FormView
	_, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		view = contactFormView(portfolio)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateContactForm sets one contact form field
func (s *PageService) UpdateContactForm(ctx context.Context, sessionID, field, value string) (*FormView, error) {
	_, span := util.StartSpan(ctx, "PageService.UpdateContactForm")
	defer span.End()

	var view FormView
	_, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		if err := portfolio.ContactForm.Set(field, value); err != nil {
			return err
		}
		view = contactFormView(portfolio)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SubmitContact submits the contact form
func (s *PageService) SubmitContact(ctx context.Context, sessionID, idempotencyKey string) (*Result[FormView], error) {
	ctx, span := util.StartSpan(ctx, "PageService.SubmitContact")
	defer span.End()

	key := ""
	if idempotencyKey != "" {
		key = submitKey("contact", sessionID, idempotencyKey)
	}

	var (
		view   FormView
		fields map[string]string
	)
	notes, err := s.do(ctx, sessionID, func(_ *session.Storefront, portfolio *session.Portfolio) error {
		if !s.claim(ctx, key, time.Now().Unix()) {
			return ErrDuplicateSubmission
		}

		submitted, err := portfolio.ContactForm.Submit()
		if err != nil {
			s.release(ctx, key)
			return err
		}
		fields = submitted
		view = contactFormView(portfolio)
		return nil
	})
	if err != nil {
		util.FormSubmissionsTotal.WithLabelValues("contact", outcome(err)).Inc()
		return &Result[FormView]{Notifications: notes}, err
	}

	util.FormSubmissionsTotal.WithLabelValues("contact", "accepted").Inc()
	s.logger.Info("Contact message accepted", zap.String("session_id", sessionID))

	if s.eventPublisher != nil {
		event := &models.ContactSubmittedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeContactSubmitted,
				Timestamp: time.Now(),
			},
			SessionID: sessionID,
			Fields:    fields,
		}
		if err := s.eventPublisher.PublishContactSubmitted(ctx, event); err != nil {
			util.EventsPublishFailedTotal.Inc()
			s.logger.Error("Failed to publish ContactSubmitted event", zap.Error(err))
		}
	}

	return &Result[FormView]{View: view, Notifications: notes}, nil
}
