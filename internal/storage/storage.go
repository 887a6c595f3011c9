// Package storage persists resolved product records. Two backends are
// provided, a MongoDB collection keyed by ASIN and a JSON file store for
// local and single-node use.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// Store is the interface for all record store backends. Records are keyed
// by ASIN; Upsert replaces an existing record for the same ASIN.
type Store interface {
	// Upsert inserts a record or replaces the one sharing its ASIN.
	Upsert(ctx context.Context, record *types.ProductRecord) error

	// FindByASIN returns the record for an ASIN, or nil when absent.
	FindByASIN(ctx context.Context, asin string) (*types.ProductRecord, error)

	// FindBySlug returns the record for a slug, or nil when absent.
	FindBySlug(ctx context.Context, slug string) (*types.ProductRecord, error)

	// List returns all records.
	List(ctx context.Context) ([]*types.ProductRecord, error)

	// Update applies the non-nil fields of upd to the record for asin.
	Update(ctx context.Context, asin string, upd *types.RecordUpdate) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the store backend identifier.
	Name() string
}

// NewStore creates the store backend selected by the configuration.
func NewStore(cfg *config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "mongo", "mongodb":
		return NewMongoStore(cfg.URI, cfg.Database, cfg.Collection, logger)
	case "json", "file":
		return NewJSONStore(cfg.OutputPath, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
