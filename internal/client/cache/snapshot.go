// Package cache implements the local cache adapter: an all-or-nothing
// serialization of the in-memory document and category collections into the
// durable key-value store.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/client/repositories/kv"
	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/dbx"
	"github.com/docvault-app/docvault/internal/logging"
)

// Snapshot is the last known-good state loaded from the cache. Document
// statuses are not part of the snapshot; callers recompute them on read.
type Snapshot struct {
	Documents  []models.Document
	Categories []models.Category
}

// Store reads and writes snapshots. It is a stateless translator: it never
// caches collections itself.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("component", "cache")}
}

// Load reads the two snapshot entries and parses each independently: a
// corrupted documents entry must not prevent categories from loading, and
// vice versa. Absent entries yield empty collections. Storage-layer
// failures map to common.ErrPersistence.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	repo := kv.NewSQLiteRepository(s.db)
	snap := &Snapshot{}

	raw, err := repo.Get(ctx, common.KVKeyDocuments)
	if err != nil {
		return nil, fmt.Errorf("%w: read documents entry: %w", common.ErrPersistence, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap.Documents); err != nil {
			s.logger.Warn(ctx, "discarding unparseable documents entry", "error", err)
			snap.Documents = nil
		}
	}

	raw, err = repo.Get(ctx, common.KVKeyCategories)
	if err != nil {
		return nil, fmt.Errorf("%w: read categories entry: %w", common.ErrPersistence, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap.Categories); err != nil {
			s.logger.Warn(ctx, "discarding unparseable categories entry", "error", err)
			snap.Categories = nil
		}
	}

	return snap, nil
}

// Save writes both entries inside one transaction, so from the caller's
// perspective the snapshot update is all-or-nothing. Any serialization or
// storage error maps to common.ErrPersistence.
func (s *Store) Save(ctx context.Context, documents []models.Document, categories []models.Category) error {
	docsRaw, err := json.Marshal(documents)
	if err != nil {
		return fmt.Errorf("%w: encode documents: %w", common.ErrPersistence, err)
	}
	catsRaw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("%w: encode categories: %w", common.ErrPersistence, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.KVKeyDocuments, docsRaw); err != nil {
			return err
		}
		return repo.Set(ctx, common.KVKeyCategories, catsRaw)
	})
	if err != nil {
		return fmt.Errorf("%w: write snapshot: %w", common.ErrPersistence, err)
	}
	return nil
}
