package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	key   string
	event interface{}
}

type fakeWriter struct {
	events []recordedEvent
}

func (w *fakeWriter) PublishEvent(_ context.Context, key string, event interface{}) error {
	w.events = append(w.events, recordedEvent{key: key, event: event})
	return nil
}

func TestPublishersKeyBySession(t *testing.T) {
	w := &fakeWriter{}
	ep := NewEventPublisher(w)
	ctx := context.Background()

	require.NoError(t, ep.PublishNotification(ctx, &models.NotificationEvent{
		Notification: models.Notification{SessionID: "s1", Message: "hi"},
	}))
	require.NoError(t, ep.PublishContactSubmitted(ctx, &models.ContactSubmittedEvent{SessionID: "s1"}))
	require.NoError(t, ep.PublishOrderSubmitted(ctx, &models.OrderSubmittedEvent{SessionID: "s2"}))

	require.Len(t, w.events, 3)
	assert.Equal(t, "session-s1", w.events[0].key)
	assert.Equal(t, "session-s1", w.events[1].key)
	assert.Equal(t, "session-s2", w.events[2].key)
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestHandleMessageRoutesByType(t *testing.T) {
	eh := NewEventHandler()

	var contact *models.ContactSubmittedEvent
	var order *models.OrderSubmittedEvent
	eh.OnContactSubmitted(func(_ context.Context, e *models.ContactSubmittedEvent) error {
		contact = e
		return nil
	})
	eh.OnOrderSubmitted(func(_ context.Context, e *models.OrderSubmittedEvent) error {
		order = e
		return nil
	})

	ctx := context.Background()
	err := eh.HandleMessage(ctx, message(t, &models.ContactSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypeContactSubmitted, Timestamp: time.Now()},
		SessionID: "s1",
		Fields:    map[string]string{"name": "Мария"},
	}))
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Мария", contact.Fields["name"])

	err = eh.HandleMessage(ctx, message(t, &models.OrderSubmittedEvent{
		BaseEvent:   models.BaseEvent{EventID: "e2", EventType: models.EventTypeOrderSubmitted},
		SessionID:   "s1",
		TotalAmount: 25980,
		Items:       []models.OrderItemData{{ProductID: 1, Quantity: 2, UnitPrice: 12990}},
	}))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(25980), order.TotalAmount)

	assert.NoError(t, eh.HandleMessage(ctx, message(t, &models.NotificationEvent{
		BaseEvent: models.BaseEvent{EventID: "e3", EventType: models.EventTypeNotification},
	})))
	assert.NoError(t, eh.HandleMessage(ctx, message(t, &models.BaseEvent{EventType: "SOMETHING_ELSE"})))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
