package memory

import (
	"context"
	"sync"
)

// SnapshotRepository is a concurrency-safe in-memory snapshot store,
// used in tests and when the process runs without a database.
type SnapshotRepository struct {
	mu    sync.RWMutex
	state []byte
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Save(_ context.Context, state []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = append([]byte(nil), state...)
	return nil
}

func (r *SnapshotRepository) Load(_ context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return nil, nil
	}
	return append([]byte(nil), r.state...), nil
}
