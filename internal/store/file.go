package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/benvon/metric-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexFileName  = "metrics.json"
	recordsDirName = "metrics"
)

// FileStore keeps metrics as flat JSON files:
// <dir>/metrics.json holds the index and <dir>/metrics/<id>.json holds each record.
type FileStore struct {
	dir    string
	logger *zap.Logger
	locks  *pathLocks
}

// NewFileStore creates a file store rooted at dir, creating the directory layout if needed
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Join(dir, recordsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger, locks: newPathLocks()}, nil
}

// Dir returns the root data directory
func (s *FileStore) Dir() string {
	return s.dir
}

// Ping verifies the data directory is reachable
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Join(s.dir, recordsDirName))
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory unavailable: %s is not a directory", info.Name())
	}
	return nil
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.dir, indexFileName)
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, recordsDirName, id+".json")
}

// validID reports whether id is usable as a record file name inside the records directory
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	if strings.ContainsAny(id, "/\\\x00") {
		return false
	}
	return filepath.Base(id) == id
}

// ListEntries returns the index; a missing index file is an empty list
func (s *FileStore) ListEntries(ctx context.Context) ([]models.MetricEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.indexPath()
	unlock := s.locks.Lock(path)
	defer unlock()
	return s.readIndex()
}

func (s *FileStore) readIndex() ([]models.MetricEntry, error) {
	data, err := os.ReadFile(s.indexPath())
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("metrics_index_missing", zap.String("path", s.indexPath()))
		return []models.MetricEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics index: %w", err)
	}
	entries := []models.MetricEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode metrics index: %w", err)
	}
	return entries, nil
}

func (s *FileStore) writeIndex(entries []models.MetricEntry) error {
	if entries == nil {
		entries = []models.MetricEntry{}
	}
	if err := writeJSONFile(s.indexPath(), entries); err != nil {
		return fmt.Errorf("failed to write metrics index: %w", err)
	}
	return nil
}

// Get reads the record for id
func (s *FileStore) Get(ctx context.Context, id string) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	path := s.recordPath(id)
	unlock := s.locks.Lock(path)
	defer unlock()
	return s.readRecord(path)
}

func (s *FileStore) readRecord(path string) (*models.Metric, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metric: %w", err)
	}
	metric := &models.Metric{}
	if err := json.Unmarshal(data, metric); err != nil {
		return nil, fmt.Errorf("failed to decode metric: %w", err)
	}
	if metric.Occurrences == nil {
		metric.Occurrences = []models.Occurrence{}
	}
	return metric, nil
}

// Create stores metric under a new id with an empty occurrence history
func (s *FileStore) Create(ctx context.Context, metric *models.Metric) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := metric.Clone()
	record.ID = uuid.NewString()
	record.Occurrences = []models.Occurrence{}

	path := s.recordPath(record.ID)
	unlockRecord := s.locks.Lock(path)
	defer unlockRecord()

	if err := writeJSONFile(path, record); err != nil {
		return nil, fmt.Errorf("failed to write metric: %w", err)
	}

	unlockIndex := s.locks.Lock(s.indexPath())
	defer unlockIndex()

	entries, err := s.readIndex()
	if err == nil {
		err = s.writeIndex(append(entries, record.Entry()))
	}
	if err != nil {
		// keep the record and the index in sync
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.logger.Warn("failed_to_remove_orphaned_metric",
				zap.String("id", record.ID),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	s.logger.Debug("metric_record_created", zap.String("id", record.ID))
	return record.Clone(), nil
}

// Replace overwrites the record for id and refreshes its index entry
func (s *FileStore) Replace(ctx context.Context, id string, metric *models.Metric) (*models.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrNotFound
	}

	path := s.recordPath(id)
	unlockRecord := s.locks.Lock(path)
	defer unlockRecord()

	existing, err := s.readRecord(path)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	record := metric.Clone()
	record.ID = id
	if record.Occurrences == nil {
		record.Occurrences = []models.Occurrence{}
	}
	if err := writeJSONFile(path, record); err != nil {
		return nil, fmt.Errorf("failed to write metric: %w", err)
	}

	if existing.Entry() != record.Entry() {
		if err := s.updateEntry(record.Entry()); err != nil {
			// put the previous record back so it still matches the index
			if restoreErr := writeJSONFile(path, existing); restoreErr != nil {
				s.logger.Warn("failed_to_restore_metric",
					zap.String("id", id),
					zap.Error(restoreErr),
				)
			}
			return nil, err
		}
	}

	s.logger.Debug("metric_record_replaced", zap.String("id", id))
	return record.Clone(), nil
}

func (s *FileStore) updateEntry(entry models.MetricEntry) error {
	unlock := s.locks.Lock(s.indexPath())
	defer unlock()

	entries, err := s.readIndex()
	if err != nil {
		return err
	}
	found := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, entry)
	}
	return s.writeIndex(entries)
}

// Delete removes the index entry and the record; missing ids are ignored
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(id) {
		// no record file can exist under an unsafe name, but the index may still list it
		return s.removeEntry(id)
	}

	path := s.recordPath(id)
	unlockRecord := s.locks.Lock(path)
	defer unlockRecord()

	if err := s.removeEntry(id); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("metric_record_already_absent", zap.String("id", id))
			return nil
		}
		return fmt.Errorf("failed to delete metric: %w", err)
	}

	s.logger.Debug("metric_record_deleted", zap.String("id", id))
	return nil
}

func (s *FileStore) removeEntry(id string) error {
	unlock := s.locks.Lock(s.indexPath())
	defer unlock()

	entries, err := s.readIndex()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.writeIndex(kept)
}

// writeJSONFile writes v as indented JSON through a temp file and rename
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// pathLocks hands out one mutex per path so writes to unrelated files never contend
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*pathLock)}
}

// Lock acquires the mutex for path and returns its release func
func (p *pathLocks) Lock(path string) func() {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &pathLock{}
		p.locks[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, path)
		}
		p.mu.Unlock()
	}
}
