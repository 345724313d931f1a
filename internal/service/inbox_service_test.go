package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInbox struct {
	processed   map[string]string
	submissions []*models.Submission
	createErr   error
}

func newFakeInbox() *fakeInbox {
	return &fakeInbox{processed: make(map[string]string)}
}

func (f *fakeInbox) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	_, ok := f.processed[eventID]
	return ok, nil
}

func (f *fakeInbox) MarkEventProcessed(_ context.Context, eventID, eventType string) error {
	f.processed[eventID] = eventType
	return nil
}

func (f *fakeInbox) CreateSubmission(_ context.Context, sub *models.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	sub.ID = int64(len(f.submissions) + 1)
	f.submissions = append(f.submissions, sub)
	return nil
}

func TestInboxRecordsContactOnce(t *testing.T) {
	inbox := newFakeInbox()
	svc := NewInboxService(inbox)
	ctx := context.Background()

	event := &models.ContactSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeContactSubmitted},
		SessionID: "s1",
		Fields:    map[string]string{"name": "Мария", "email": "m@example.com", "message": "Привет"},
	}

	require.NoError(t, svc.HandleContactSubmitted(ctx, event))
	require.NoError(t, svc.HandleContactSubmitted(ctx, event))

	require.Len(t, inbox.submissions, 1)
	sub := inbox.submissions[0]
	assert.Equal(t, models.SubmissionKindContact, sub.Kind)
	assert.Equal(t, "s1", sub.SessionID)
	assert.Equal(t, models.EventTypeContactSubmitted, inbox.processed["evt-1"])

	var decoded models.ContactSubmittedEvent
	require.NoError(t, json.Unmarshal(sub.Payload, &decoded))
	assert.Equal(t, "Привет", decoded.Fields["message"])
}

func TestInboxRecordsOrder(t *testing.T) {
	inbox := newFakeInbox()
	svc := NewInboxService(inbox)

	err := svc.HandleOrderSubmitted(context.Background(), &models.OrderSubmittedEvent{
		BaseEvent:   models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeOrderSubmitted},
		SessionID:   "s2",
		OrderNumber: "LB-00000001",
		TotalAmount: 12990,
	})
	require.NoError(t, err)
	require.Len(t, inbox.submissions, 1)
	assert.Equal(t, models.SubmissionKindOrder, inbox.submissions[0].Kind)
}

func TestInboxStoreFailureLeavesEventUnprocessed(t *testing.T) {
	inbox := newFakeInbox()
	inbox.createErr = errors.New("db down")
	svc := NewInboxService(inbox)

	err := svc.HandleContactSubmitted(context.Background(), &models.ContactSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-3", EventType: models.EventTypeContactSubmitted},
	})
	assert.Error(t, err)
	assert.NotContains(t, inbox.processed, "evt-3")
}
