package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	const points = 109

	ctx := context.Background()
	store := NewStore()

	// запись
	id, err := store.Put(ctx, points)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	// чтение
	receipt, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, receipt.ID)
	require.Equal(t, points, receipt.Points)
	require.Equal(t, 1, store.Len())
}

func TestStoreDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first, err := store.Put(ctx, 28)
	require.NoError(t, err)
	second, err := store.Put(ctx, 28)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, 2, store.Len())
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Put(ctx, 10)
	require.NoError(t, err)

	_, err = store.Get(ctx, uuid.New().String())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreNegativePoints(t *testing.T) {
	store := NewStore()

	_, err := store.Put(context.Background(), -1)
	require.ErrorIs(t, err, ErrPointsIncorrect)
	require.Zero(t, store.Len())
}

func TestStoreRegeneratesCollidingID(t *testing.T) {
	ids := []string{"a", "a", "a", "b"}
	next := 0
	store := newStore(func() string {
		id := ids[next]
		next++
		return id
	})
	ctx := context.Background()

	first, err := store.Put(ctx, 1)
	require.NoError(t, err)
	second, err := store.Put(ctx, 2)
	require.NoError(t, err)

	require.Equal(t, "a", first)
	require.Equal(t, "b", second)

	receipt, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, receipt.Points)
}

func TestStoreConcurrentAccess(t *testing.T) {
	const workers = 16
	const perWorker = 100

	ctx := context.Background()
	store := NewStore()

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				points := w*perWorker + i
				id, err := store.Put(ctx, points)
				if err != nil {
					errs <- err
					return
				}
				receipt, err := store.Get(ctx, id)
				if err != nil {
					errs <- err
					return
				}
				if receipt.Points != points {
					errs <- fmt.Errorf("id %s: got %d points, want %d", id, receipt.Points, points)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, workers*perWorker, store.Len())
}
