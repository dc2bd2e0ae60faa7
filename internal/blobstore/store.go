// Package blobstore provides byte storage for uploaded files. The incident
// module stores attachments through it; everything above the interface is
// backend-agnostic.
package blobstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no blob exists under the requested key.
var ErrNotFound = errors.New("blob not found")

// Blob is a stored object with its content type.
type Blob struct {
	ContentType string
	Data        []byte
}

// Store reads and writes blobs by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (*Blob, error)
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps blobs in a map. It backs development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]Blob)}
}

func (s *MemoryStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = Blob{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &Blob{ContentType: b.ContentType, Data: append([]byte(nil), b.Data...)}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
