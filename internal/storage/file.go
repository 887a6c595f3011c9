package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// JSONStore keeps product records in memory and mirrors every mutation to
// a JSON array on disk. Existing records are loaded on open, so the file
// survives restarts.
type JSONStore struct {
	path    string
	mu      sync.Mutex
	records []*types.ProductRecord
	byASIN  map[string]int
	logger  *slog.Logger
}

// NewJSONStore opens a JSON file store, loading any existing records.
func NewJSONStore(outputPath string, logger *slog.Logger) (*JSONStore, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "json", Err: fmt.Errorf("create output dir: %w", err)}
	}

	s := &JSONStore{
		path:   outputPath,
		byASIN: make(map[string]int),
		logger: logger.With("component", "json_store"),
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, &types.StorageError{Backend: "json", Err: fmt.Errorf("read store file: %w", err)}
		}
		return s, nil
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, &types.StorageError{Backend: "json", Err: fmt.Errorf("decode store file: %w", err)}
		}
		for i, r := range s.records {
			s.byASIN[r.ASIN] = i
		}
	}

	s.logger.Debug("json store opened", "path", outputPath, "records", len(s.records))
	return s, nil
}

func (s *JSONStore) Name() string { return "json" }

func (s *JSONStore) Upsert(ctx context.Context, record *types.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byASIN[record.ASIN]; ok {
		s.records[i] = record
	} else {
		s.byASIN[record.ASIN] = len(s.records)
		s.records = append(s.records, record)
	}
	return s.flushLocked()
}

func (s *JSONStore) FindByASIN(ctx context.Context, asin string) (*types.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byASIN[asin]
	if !ok {
		return nil, nil
	}
	copied := *s.records[i]
	return &copied, nil
}

func (s *JSONStore) FindBySlug(ctx context.Context, slug string) (*types.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Slug == slug {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *JSONStore) List(ctx context.Context) ([]*types.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*types.ProductRecord, len(s.records))
	for i, r := range s.records {
		copied := *r
		out[i] = &copied
	}
	return out, nil
}

func (s *JSONStore) Update(ctx context.Context, asin string, upd *types.RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byASIN[asin]
	if !ok {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("update: no record for asin %s", asin)}
	}

	r := s.records[i]
	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.Description != nil {
		r.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		r.ImageURL = *upd.ImageURL
	}
	if upd.Category != nil {
		r.Category = *upd.Category
	}
	if upd.Slug != nil {
		r.Slug = *upd.Slug
	}
	return s.flushLocked()
}

func (s *JSONStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

// flushLocked rewrites the file through a temp-and-rename so a crash mid
// write never truncates the store. Caller holds s.mu.
func (s *JSONStore) flushLocked() error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("create temp file: %w", err)}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records); err != nil {
		f.Close()
		os.Remove(tmp)
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("encode: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("close temp file: %w", err)}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("json store closed", "path", s.path, "records", len(s.records))
	return nil
}
