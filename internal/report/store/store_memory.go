// Package store persists generated report records.
package store

import (
	"context"
	"sync"

	"lifepath/internal/report"
	"lifepath/pkg/platform/sentinel"
)

// InMemoryStore keeps records in process; contents are lost on restart.
type InMemoryStore struct {
	mu            sync.RWMutex
	records       map[string]report.Record
	byFingerprint map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:       make(map[string]report.Record),
		byFingerprint: make(map[string]string),
	}
}

// Save inserts or replaces a record by ID.
func (s *InMemoryStore) Save(_ context.Context, rec report.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	if latestID, ok := s.byFingerprint[rec.Fingerprint]; !ok || !s.records[latestID].CreatedAt.After(rec.CreatedAt) {
		s.byFingerprint[rec.Fingerprint] = rec.ID
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (report.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return report.Record{}, sentinel.ErrNotFound
	}
	return rec, nil
}

// FindLatestByFingerprint returns the newest record generated for a fingerprint.
func (s *InMemoryStore) FindLatestByFingerprint(_ context.Context, fingerprint string) (report.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byFingerprint[fingerprint]
	if !ok {
		return report.Record{}, sentinel.ErrNotFound
	}
	return s.records[id], nil
}

func (s *InMemoryStore) Health(context.Context) error { return nil }
