package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satriowb/syncpad/internal/domain"
)

// MemoryStore is the in-process DocumentStore backend, used for tests and
// development. Writes apply in lock order, which is what gives the
// last-write-wins policy its meaning here.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]domain.Document),
	}
}

// Create allocates a document with a fresh id.
func (s *MemoryStore) Create(_ context.Context, title string) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   "",
		UpdatedAt: time.Now(),
	}
	s.docs[doc.ID] = doc
	return doc, nil
}

// Get fetches a document by id.
func (s *MemoryStore) Get(_ context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, ErrNotFound
	}
	return doc, nil
}

// Update applies the non-nil fields and stamps UpdatedAt.
func (s *MemoryStore) Update(_ context.Context, id string, f Fields) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, ErrNotFound
	}

	if f.Title != nil {
		doc.Title = *f.Title
	}
	if f.Content != nil {
		doc.Content = *f.Content
	}
	doc.UpdatedAt = stamp(doc.UpdatedAt)
	s.docs[id] = doc
	return doc, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }

// stamp returns now, nudged forward if the clock has not advanced past
// the previous write so per-document timestamps stay monotonic.
func stamp(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}
