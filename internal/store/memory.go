package store

import (
	"context"
	"sync"

	"github.com/benvon/metric-tracker/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory MetricStore used by tests and ephemeral runs
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*models.Metric
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.Metric)}
}

// ListEntries returns the index in insertion order
func (s *MemoryStore) ListEntries(ctx context.Context) ([]models.MetricEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.MetricEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.records[id].Entry())
	}
	return entries, nil
}

// Get returns a copy of the record for id
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return m.Clone(), nil
}

// Create stores a copy of metric under a new id with empty occurrences
func (s *MemoryStore) Create(ctx context.Context, metric *models.Metric) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record := metric.Clone()
	record.ID = uuid.NewString()
	record.Occurrences = []models.Occurrence{}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	return record.Clone(), nil
}

// Replace overwrites the record for id
func (s *MemoryStore) Replace(ctx context.Context, id string, metric *models.Metric) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil, ErrNotFound
	}
	record := metric.Clone()
	record.ID = id
	if record.Occurrences == nil {
		record.Occurrences = []models.Occurrence{}
	}
	s.records[id] = record
	return record.Clone(), nil
}

// Delete removes id; missing ids are ignored
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
