package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"go.uber.org/zap"
)

// InboxStore persists accepted submissions; *store.Store implements it.
type InboxStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
	CreateSubmission(ctx context.Context, sub *models.Submission) error
}

// InboxService records submission events for the page owner
type InboxService struct {
	store  InboxStore
	logger *zap.Logger
}

// NewInboxService creates a new inbox service
func NewInboxService(store InboxStore) *InboxService {
	return &InboxService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// HandleContactSubmitted stores a contact message
func (is *InboxService) HandleContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	ctx, span := util.StartSpan(ctx, "InboxService.HandleContactSubmitted")
	defer span.End()

	return is.record(ctx, event.BaseEvent, models.SubmissionKindContact, event.SessionID, event)
}

// HandleOrderSubmitted stores an order request
func (is *InboxService) HandleOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	ctx, span := util.StartSpan(ctx, "InboxService.HandleOrderSubmitted")
	defer span.End()

	return is.record(ctx, event.BaseEvent, models.SubmissionKindOrder, event.SessionID, event)
}

func (is *InboxService) record(ctx context.Context, base models.BaseEvent, kind, sessionID string, event interface{}) error {
	processed, err := is.store.IsEventProcessed(ctx, base.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		is.logger.Info("Event already processed", zap.String("event_id", base.EventID))
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	sub := &models.Submission{
		EventID:   base.EventID,
		Kind:      kind,
		SessionID: sessionID,
		Payload:   payload,
	}
	if err := is.store.CreateSubmission(ctx, sub); err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	util.SubmissionsRecordedTotal.WithLabelValues(kind).Inc()

	if err := is.store.MarkEventProcessed(ctx, base.EventID, base.EventType); err != nil {
		is.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	is.logger.Info("Submission recorded",
		zap.String("kind", kind),
		zap.Int64("submission_id", sub.ID),
		zap.String("session_id", sessionID))
	return nil
}
