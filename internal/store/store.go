package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/metric-tracker/internal/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when replacing a metric that has no record
var ErrNotFound = errors.New("metric not found")

// MetricStore persists metric records and the lightweight index used for listing.
// Implementations keep the index and the records in sync on every mutation.
type MetricStore interface {
	// ListEntries returns the index in insertion order
	ListEntries(ctx context.Context) ([]models.MetricEntry, error)
	// Get returns the record for id, or nil without error when there is none
	Get(ctx context.Context, id string) (*models.Metric, error)
	// Create assigns a fresh id, resets occurrences to empty and stores the record
	Create(ctx context.Context, metric *models.Metric) (*models.Metric, error)
	// Replace overwrites the record for id, returning ErrNotFound when absent
	Replace(ctx context.Context, id string, metric *models.Metric) (*models.Metric, error)
	// Delete removes the record and its index entry; deleting a missing id is not an error
	Delete(ctx context.Context, id string) error
}

var (
	_ Backend = (*FileStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)

// Storage backend names accepted by Open
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backend is a MetricStore that can report its own health
type Backend interface {
	MetricStore
	Ping(ctx context.Context) error
}

// Open creates the named backend. dir is only used by the file backend.
func Open(backend, dir string, logger *zap.Logger) (Backend, error) {
	switch backend {
	case BackendFile:
		fs, err := NewFileStore(dir, logger)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
