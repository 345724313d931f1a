package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter writes one keyed event; *Producer implements it.
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing page events
type EventPublisher struct {
	writer EventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// PublishNotification publishes a Notification event
func (ep *EventPublisher) PublishNotification(ctx context.Context, event *models.NotificationEvent) error {
	return ep.writer.PublishEvent(ctx, sessionKey(event.Notification.SessionID), event)
}

// PublishContactSubmitted publishes a ContactSubmitted event
func (ep *EventPublisher) PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	return ep.writer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishOrderSubmitted publishes an OrderSubmitted event
func (ep *EventPublisher) PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	return ep.writer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// EventHandler routes incoming events by type
type EventHandler struct {
	onContactSubmitted func(context.Context, *models.ContactSubmittedEvent) error
	onOrderSubmitted   func(context.Context, *models.OrderSubmittedEvent) error
	logger             *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnContactSubmitted registers a handler for ContactSubmitted events
func (eh *EventHandler) OnContactSubmitted(handler func(context.Context, *models.ContactSubmittedEvent) error) {
	eh.onContactSubmitted = handler
}

// OnOrderSubmitted registers a handler for OrderSubmitted events
func (eh *EventHandler) OnOrderSubmitted(handler func(context.Context, *models.OrderSubmittedEvent) error) {
	eh.onOrderSubmitted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeContactSubmitted:
		if eh.onContactSubmitted != nil {
			var event models.ContactSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContactSubmitted event: %w", err)
			}
			return eh.onContactSubmitted(ctx, &event)
		}

	case models.EventTypeOrderSubmitted:
		if eh.onOrderSubmitted != nil {
			var event models.OrderSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderSubmitted event: %w", err)
			}
			return eh.onOrderSubmitted(ctx, &event)
		}

	case models.EventTypeNotification:
		// toasts are mirrored for downstream consumers; nothing to do here

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
