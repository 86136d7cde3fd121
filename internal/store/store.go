package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/iurnickita/receiptprocessor/internal/model"
)

type Store interface {
	Put(ctx context.Context, points int) (string, error)
	Get(ctx context.Context, id string) (model.ScoredReceipt, error)
	Len() int
}

var (
	ErrNotFound        = errors.New("not found")
	ErrPointsIncorrect = errors.New("points value is incorrect")
)

type store struct {
	mu       sync.RWMutex
	receipts map[string]int
	newID    func() string
}

// NewStore returns an in-memory store. Entries live until the process exits.
func NewStore() Store {
	return newStore(func() string { return uuid.New().String() })
}

func newStore(newID func() string) *store {
	return &store{
		receipts: make(map[string]int),
		newID:    newID,
	}
}

func (store *store) Put(_ context.Context, points int) (string, error) {
	if points < 0 {
		return "", ErrPointsIncorrect
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	// Новый идентификатор, повтор при совпадении
	id := store.newID()
	for {
		if _, ok := store.receipts[id]; !ok {
			break
		}
		id = store.newID()
	}
	store.receipts[id] = points

	return id, nil
}

func (store *store) Get(_ context.Context, id string) (model.ScoredReceipt, error) {
	store.mu.RLock()
	points, ok := store.receipts[id]
	store.mu.RUnlock()

	if !ok {
		return model.ScoredReceipt{}, ErrNotFound
	}
	return model.ScoredReceipt{ID: id, Points: points}, nil
}

func (store *store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return len(store.receipts)
}
