package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/cache"
)

type ledgerView struct {
	InvoiceID string `json:"invoice_id"`
	Total     string `json:"total"`
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNop()

	require.NoError(t, c.Set(ctx, "k", ledgerView{Total: "1"}, []string{"t"}))

	var got ledgerView
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, []string{"t"}))
}

// Runs against a real server when REDIS_ADDR is set.
func TestRedis_TagInvalidation(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()

	client, err := cache.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	c := cache.NewRedis(client, time.Minute)

	id := uuid.NewString()
	key := "test:ledger:" + id
	tag := "test:invoice:" + id

	require.NoError(t, c.Set(ctx, key, ledgerView{InvoiceID: id, Total: "125.50"}, []string{tag}))

	var got ledgerView
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "125.50", got.Total)

	require.NoError(t, c.Invalidate(ctx, []string{tag}))

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
