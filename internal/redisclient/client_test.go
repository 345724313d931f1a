package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeys(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires Redis (set TEST_REDIS_ADDR)")
	}

	client, err := NewClient(addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := "checkout:" + uuid.New().String()

	claimed, err := client.ClaimIdempotencyKey(ctx, key, "LB-1234ABCD", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = client.ClaimIdempotencyKey(ctx, key, "LB-FFFFFFFF", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	val, err := client.GetIdempotencyValue(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "LB-1234ABCD", val)

	require.NoError(t, client.ReleaseIdempotencyKey(ctx, key))

	val, err = client.GetIdempotencyValue(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, val)

	claimed, err = client.ClaimIdempotencyKey(ctx, key, "LB-FFFFFFFF", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyKeyPrefix(t *testing.T) {
	assert.Equal(t, "idempotency:contact:abc", idempotencyKey("contact:abc"))
}
