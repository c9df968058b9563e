package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/themeprefs"
)

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", "dark"))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Close())

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, themeprefs.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Set(ctx, "k", "light"), themeprefs.ErrStorageUnavailable)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("user:%d:app_theme-mode", i)
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, "dark")
				_, _ = store.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}
