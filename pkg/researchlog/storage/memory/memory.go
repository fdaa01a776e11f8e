package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tendant/researchlog/pkg/researchlog"
)

// Backend is an in-memory implementation of the researchlog.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() researchlog.BlobStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

func (b *Backend) Put(ctx context.Context, name string, reader io.Reader) error {
	if err := researchlog.ValidateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return researchlog.IOFailure(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[name] = data
	return nil
}

func (b *Backend) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[name]
	if !exists {
		return nil, researchlog.ErrAssetNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) Remove(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, name)
	return nil
}

// Names returns the stored asset names.
func (b *Backend) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.objects))
	for name := range b.objects {
		names = append(names, name)
	}
	return names
}
