package store

import (
	"context"
	"os"
	"testing"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_URL)")
	}

	store, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSeedAndLoadProducts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []models.Product{
		{ID: 9001, Name: "Тестовая сумка", Price: 12990, Category: "Сумки", Tags: []string{"тест"}},
	}
	require.NoError(t, store.SeedProducts(ctx, seed))

	products, err := store.GetProducts(ctx)
	require.NoError(t, err)

	var found *models.Product
	for i := range products {
		if products[i].ID == 9001 {
			found = &products[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, int64(12990), found.Price)
	assert.Equal(t, []string{"тест"}, found.Tags)
}

func TestSubmissionIdempotency(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	eventID := uuid.New().String()
	sub := &models.Submission{
		EventID:   eventID,
		Kind:      models.SubmissionKindContact,
		SessionID: "session-1",
		Payload:   []byte(`{"name":"Мария"}`),
	}
	require.NoError(t, store.CreateSubmission(ctx, sub))
	assert.NotZero(t, sub.ID)

	processed, err := store.IsEventProcessed(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, store.MarkEventProcessed(ctx, eventID, models.EventTypeContactSubmitted))
	require.NoError(t, store.MarkEventProcessed(ctx, eventID, models.EventTypeContactSubmitted))

	processed, err = store.IsEventProcessed(ctx, eventID)
	require.NoError(t, err)
	assert.True(t, processed)

	subs, err := store.ListSubmissions(ctx, models.SubmissionKindContact, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.EventID)
	}
	assert.Contains(t, ids, eventID)
}
