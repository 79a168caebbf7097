package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// Record is the contract a type must satisfy to live in a FileStore.
type Record interface {
	GetID() string
	SetID(id string)
	Normalize()
	Validate() error
}

// FileStore persists one homogeneous collection as a JSON array in a single
// file. Every mutation rewrites the whole file; catalogs are small enough
// that simplicity wins over throughput. Writes go through a temp file plus
// rename so an interrupted save leaves the previous contents intact.
//
// The store serializes its own access with an RWMutex. It is not safe for
// multiple processes pointing at the same backing file; there is no
// cross-process locking.
type FileStore[T Record] struct {
	mu      sync.RWMutex
	path    string
	name    string
	logger  *zap.Logger
	records map[string]T
	order   []string
}

// NewFileStore opens the collection at path, loading existing records. A
// missing file yields an empty store; a file that exists but cannot be
// parsed or validated fails with a corrupt-store error naming the offending
// record.
func NewFileStore[T Record](path, name string, logger *zap.Logger) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		name:    name,
		logger:  logger,
		records: make(map[string]T),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore[T]) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("backing file absent, starting empty",
				zap.String("collection", s.name),
				zap.String("file", s.path),
			)
			return nil
		}
		return apperrors.NewInternalError(fmt.Sprintf("read %s", s.path), err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return apperrors.NewCorruptStoreError(fmt.Sprintf("file %s is not a valid collection", s.path), err)
	}

	for i, raw := range raws {
		// A null element decodes to a nil pointer, which no record method
		// survives.
		if string(raw) == "null" {
			return apperrors.NewCorruptStoreError(
				fmt.Sprintf("file %s: record %d is null", s.path, i), nil)
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return apperrors.NewCorruptStoreError(
				fmt.Sprintf("file %s: record %d is not a valid %s", s.path, i, s.name), err)
		}
		rec.Normalize()
		if rec.GetID() == "" {
			return apperrors.NewCorruptStoreError(
				fmt.Sprintf("file %s: record %d: field %q is required", s.path, i, "id"), nil)
		}
		if err := rec.Validate(); err != nil {
			return apperrors.NewCorruptStoreError(
				fmt.Sprintf("file %s: record %d failed validation", s.path, i), err)
		}
		if _, exists := s.records[rec.GetID()]; exists {
			return apperrors.NewCorruptStoreError(
				fmt.Sprintf("file %s: record %d: duplicate id %q", s.path, i, rec.GetID()), nil)
		}
		s.records[rec.GetID()] = rec
		s.order = append(s.order, rec.GetID())
	}

	s.logger.Info("collection loaded",
		zap.String("collection", s.name),
		zap.String("file", s.path),
		zap.Int("count", len(raws)),
	)
	return nil
}

// save rewrites the full collection. Callers must hold the write lock.
// The temp-then-rename dance keeps the previous file intact if the process
// dies mid-write.
func (s *FileStore[T]) save() error {
	list := make([]T, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.records[id])
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("marshal collection %s", s.name), err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("create data dir %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, s.name+"-*.json.tmp")
	if err != nil {
		return apperrors.NewInternalError("create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperrors.NewInternalError(fmt.Sprintf("write %s", tmpPath), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperrors.NewInternalError(fmt.Sprintf("sync %s", tmpPath), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewInternalError(fmt.Sprintf("close %s", tmpPath), err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewInternalError(fmt.Sprintf("rename %s to %s", tmpPath, s.path), err)
	}

	s.logger.Debug("collection saved",
		zap.String("collection", s.name),
		zap.Int("count", len(list)),
	)
	return nil
}

// Get returns the record with the given id.
func (s *FileStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok
}

// All returns the records in insertion order.
func (s *FileStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]T, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.records[id])
	}
	return list
}

// Count returns the number of stored records.
func (s *FileStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Add validates and inserts a record, assigning a fresh uuid when the id is
// empty, then persists the whole collection. A caller-supplied id that
// already exists fails with a duplicate-id error and nothing is written.
func (s *FileStore[T]) Add(rec T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.GetID() == "" {
		rec.SetID(uuid.NewString())
	} else if _, exists := s.records[rec.GetID()]; exists {
		return zero, apperrors.NewDuplicateIDError(
			fmt.Sprintf("%s %q already exists", s.name, rec.GetID()))
	}
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	s.records[rec.GetID()] = rec
	s.order = append(s.order, rec.GetID())
	if err := s.save(); err != nil {
		delete(s.records, rec.GetID())
		s.order = s.order[:len(s.order)-1]
		return zero, err
	}
	return rec, nil
}

// Update replaces an existing record and persists. The id must already
// exist.
func (s *FileStore[T]) Update(rec T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.records[rec.GetID()]
	if !exists {
		return zero, apperrors.NewNotFoundError(
			fmt.Sprintf("%s %q not found", s.name, rec.GetID()))
	}
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	s.records[rec.GetID()] = rec
	if err := s.save(); err != nil {
		s.records[rec.GetID()] = prev
		return zero, err
	}
	return rec, nil
}

// Delete removes the record if present and reports whether it did. Deleting
// an absent id is a no-op, not an error.
func (s *FileStore[T]) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.records[id]
	if !exists {
		return false, nil
	}

	delete(s.records, id)
	idx := -1
	for i, oid := range s.order {
		if oid == id {
			idx = i
			break
		}
	}
	prevOrder := s.order
	s.order = append(append([]string{}, s.order[:idx]...), s.order[idx+1:]...)
	if err := s.save(); err != nil {
		s.records[id] = prev
		s.order = prevOrder
		return false, err
	}
	return true, nil
}
