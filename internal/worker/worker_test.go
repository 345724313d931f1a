package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/broker"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type sliceConsumer struct {
	messages []kafka.Message
	handled  []error
	closed   bool
}

func (c *sliceConsumer) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range c.messages {
		c.handled = append(c.handled, handler(ctx, msg))
	}
	return nil
}

func (c *sliceConsumer) Close() error {
	c.closed = true
	return nil
}

type memoryInbox struct {
	processed   map[string]bool
	submissions []*models.Submission
}

func (m *memoryInbox) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return m.processed[eventID], nil
}

func (m *memoryInbox) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	m.processed[eventID] = true
	return nil
}

func (m *memoryInbox) CreateSubmission(_ context.Context, sub *models.Submission) error {
	m.submissions = append(m.submissions, sub)
	return nil
}

func encode(t *testing.T, v interface{}) kafka.Message {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestSubmissionWorkerRecordsSubmissions(t *testing.T) {
	contact := &models.ContactSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "c1", EventType: models.EventTypeContactSubmitted},
		SessionID: "s1",
	}
	order := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "o1", EventType: models.EventTypeOrderSubmitted},
		SessionID: "s1",
	}
	toast := &models.NotificationEvent{
		BaseEvent: models.BaseEvent{EventID: "n1", EventType: models.EventTypeNotification},
	}

	consumer := &sliceConsumer{messages: []kafka.Message{
		encode(t, contact), encode(t, toast), encode(t, order), encode(t, contact),
	}}
	inbox := &memoryInbox{processed: make(map[string]bool)}
	w := NewSubmissionWorker(consumer, service.NewInboxService(inbox))

	require.NoError(t, w.Start(context.Background()))
	for _, err := range consumer.handled {
		assert.NoError(t, err)
	}

	require.Len(t, inbox.submissions, 2)
	assert.Equal(t, models.SubmissionKindContact, inbox.submissions[0].Kind)
	assert.Equal(t, models.SubmissionKindOrder, inbox.submissions[1].Kind)

	require.NoError(t, w.Stop())
	assert.True(t, consumer.closed)
}
