package state

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns a process-local repository. State does not survive a restart.
func NewMemory() Repository {
	return &memoryRepo{blobs: make(map[string][]byte)}
}

func (r *memoryRepo) Load(_ context.Context, scope string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.blobs[scope]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (r *memoryRepo) Save(_ context.Context, scope string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[scope] = append([]byte(nil), blob...)
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}
