package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func memKey(bucket, key string) string {
	return bucket + "/" + key
}

func (m *MemoryStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	m.objects[memKey(bucket, key)] = b
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[memKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", common.ErrNotFound, key)
	}
	b := make([]byte, len(data))
	copy(b, data)
	return b, nil
}

func (m *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, memKey(bucket, key))
	return nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
