package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateKeepsNewest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 1; i <= 5; i++ {
		_, err := store.Put(ctx, fmt.Sprintf("snapshots/1/%d.pdf", i), []byte("x"), "application/pdf")
		require.NoError(t, err)
	}
	_, err := store.Put(ctx, "snapshots/2/1.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)

	deleted, err := Rotate(ctx, store, "snapshots/1/", 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"snapshots/1/1.pdf", "snapshots/1/2.pdf", "snapshots/1/3.pdf"}, deleted)

	remaining, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	keys := make([]string, 0, len(remaining))
	for _, o := range remaining {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"snapshots/1/4.pdf", "snapshots/1/5.pdf", "snapshots/2/1.pdf"}, keys)
}

func TestRotateNoopUnderLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.Put(ctx, "backups/a.sql.gz", []byte("x"), "application/gzip")
	require.NoError(t, err)

	deleted, err := Rotate(ctx, store, "backups/", 4)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestMemoryStoreDeleteMissing(t *testing.T) {
	err := NewMemoryStore().Delete(context.Background(), "nope")
	assert.Error(t, err)
}
