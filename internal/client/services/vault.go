// Package services contains application services for the docvault client.
// VaultService is the reconciliation engine: it owns the in-memory document
// and category collections and orchestrates mode-aware CRUD between the
// remote document service and the local cache.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/docvault-app/docvault/internal/client/cache"
	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/logging"
)

// RemoteStore is the subset of the API client the engine needs.
type RemoteStore interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	CreateDocument(ctx context.Context, doc models.Document) (string, error)
	UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) error
	DeleteDocument(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, cat models.Category) (string, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error
	DeleteCategory(ctx context.Context, id string) error
}

// CacheStore is the local cache adapter as the engine sees it.
type CacheStore interface {
	Load(ctx context.Context) (*cache.Snapshot, error)
	Save(ctx context.Context, documents []models.Document, categories []models.Category) error
}

// ModeStore exposes the persisted mode setting.
type ModeStore interface {
	Mode() models.Mode
	Set(ctx context.Context, m models.Mode) error
}

// DeletePolicy selects what happens to documents referencing a category
// that is being deleted.
type DeletePolicy string

const (
	// DeletePolicyDelete cascades: referencing documents are removed too.
	DeletePolicyDelete DeletePolicy = "delete"
	// DeletePolicyMove reassigns referencing documents to a destination
	// category before the source is removed.
	DeletePolicyMove DeletePolicy = "move"
)

// VaultService is bound to one authenticated session. Callers must
// serialize mutating calls; the engine is a single logical thread of
// control and the optimistic apply/rollback sequence is not atomic with
// respect to interleaved mutations.
type VaultService struct {
	remote RemoteStore
	cache  CacheStore
	modes  ModeStore
	logger logging.Logger

	ownerID    string
	generation int64

	documents  []models.Document
	categories []models.Category
	loading    bool
	lastError  string

	// seams for tests
	now        func() time.Time
	newLocalID func() string
}

func NewVaultService(remote RemoteStore, cache CacheStore, modes ModeStore, logger logging.Logger) *VaultService {
	return &VaultService{
		remote:     remote,
		cache:      cache,
		modes:      modes,
		logger:     logger.With("component", "vault"),
		now:        time.Now,
		newLocalID: models.NewLocalID,
	}
}

// Documents returns the current in-memory document collection.
func (s *VaultService) Documents() []models.Document { return s.documents }

// Categories returns the current in-memory category collection.
func (s *VaultService) Categories() []models.Category { return s.categories }

// Loading reports whether a refresh is in flight.
func (s *VaultService) Loading() bool { return s.loading }

// LastError is the message of the last failed operation, empty after the
// last successful commit.
func (s *VaultService) LastError() string { return s.lastError }

// OwnerID returns the owner the engine is currently bound to.
func (s *VaultService) OwnerID() string { return s.ownerID }

// Mode returns the currently active persistence mode.
func (s *VaultService) Mode() models.Mode { return s.modes.Mode() }

// refreshTag identifies the mode/owner/generation a refresh was issued
// for. A refresh whose tag no longer matches at publish time is discarded.
type refreshTag struct {
	mode  models.Mode
	owner string
	gen   int64
}

func (s *VaultService) tag() refreshTag {
	return refreshTag{mode: s.modes.Mode(), owner: s.ownerID, gen: s.generation}
}

func (s *VaultService) current(t refreshTag) bool {
	return t == s.tag()
}

// SetOwner rebinds the engine to a new owner. Both collections are
// discarded immediately; when the owner is non-empty they are reloaded
// from the active store. Passing the current owner is a no-op.
func (s *VaultService) SetOwner(ctx context.Context, ownerID string) error {
	if ownerID == s.ownerID {
		return nil
	}

	s.ownerID = ownerID
	s.generation++
	s.documents = nil
	s.categories = nil
	s.lastError = ""

	if ownerID == "" {
		return nil
	}

	if err := s.RefreshCategories(ctx); err != nil {
		return err
	}
	return s.RefreshDocuments(ctx)
}

// SetMode persists the new mode and reloads both collections from the
// newly authoritative store. When persisting fails the mode (and the
// collections) stay as they were.
func (s *VaultService) SetMode(ctx context.Context, m models.Mode) error {
	if err := s.modes.Set(ctx, m); err != nil {
		s.lastError = err.Error()
		return err
	}
	s.generation++

	if s.ownerID == "" {
		return nil
	}
	if err := s.RefreshCategories(ctx); err != nil {
		return err
	}
	return s.RefreshDocuments(ctx)
}

// RefreshDocuments reloads the document collection from the active store.
// In remote mode a failed remote read silently degrades to the cache; only
// when the cache is also unavailable is lastError set, and the previous
// collection is never cleared on failure.
func (s *VaultService) RefreshDocuments(ctx context.Context) error {
	if s.ownerID == "" {
		return nil
	}
	t := s.tag()
	s.loading = true
	defer func() { s.loading = false }()

	if t.mode == models.ModeLocal {
		return s.loadDocumentsFromCache(ctx, t)
	}

	docs, err := s.remote.ListDocuments(ctx)
	if err != nil {
		if errors.Is(err, common.ErrRemoteUnavailable) {
			s.logger.Warn(ctx, "remote document list unavailable, using cache", "error", err)
			return s.loadDocumentsFromCache(ctx, t)
		}
		s.lastError = err.Error()
		return err
	}

	now := s.now()
	for i := range docs {
		docs[i].Recompute(now)
	}
	sortDocuments(docs)

	if !s.current(t) {
		s.logger.Debug(ctx, "discarding stale document refresh", "owner", t.owner, "mode", t.mode)
		return nil
	}

	s.documents = docs
	s.lastError = ""

	// best-effort cache warm for future offline fallback
	if err := s.cache.Save(ctx, s.documents, s.categories); err != nil {
		s.logger.Warn(ctx, "cache write-through failed", "error", err)
	}
	return nil
}

// RefreshCategories reloads the category collection. In remote mode an
// empty remote list triggers the default-category bootstrap before the
// authoritative re-read.
func (s *VaultService) RefreshCategories(ctx context.Context) error {
	if s.ownerID == "" {
		return nil
	}
	t := s.tag()
	s.loading = true
	defer func() { s.loading = false }()

	if t.mode == models.ModeLocal {
		// no bootstrap offline: an owner with zero categories sees an
		// empty list until they go online or add one manually
		return s.loadCategoriesFromCache(ctx, t)
	}

	cats, err := s.remote.ListCategories(ctx)
	if err != nil {
		if errors.Is(err, common.ErrRemoteUnavailable) {
			s.logger.Warn(ctx, "remote category list unavailable, using cache", "error", err)
			return s.loadCategoriesFromCache(ctx, t)
		}
		s.lastError = err.Error()
		return err
	}

	if len(cats) == 0 {
		if err := s.bootstrapDefaultCategories(ctx); err != nil {
			s.lastError = err.Error()
			return err
		}
		cats, err = s.remote.ListCategories(ctx)
		if err != nil {
			s.lastError = err.Error()
			return err
		}
	}

	if !s.current(t) {
		s.logger.Debug(ctx, "discarding stale category refresh", "owner", t.owner, "mode", t.mode)
		return nil
	}

	s.categories = cats
	s.lastError = ""

	if err := s.cache.Save(ctx, s.documents, s.categories); err != nil {
		s.logger.Warn(ctx, "cache write-through failed", "error", err)
	}
	return nil
}

// bootstrapDefaultCategories creates the default set sequentially, so a
// retried bootstrap cannot race itself into duplicates. A conflict from
// the server means another device created the category first; that is
// success for our purposes.
func (s *VaultService) bootstrapDefaultCategories(ctx context.Context) error {
	s.logger.Info(ctx, "bootstrapping default categories", "owner", s.ownerID)
	for _, def := range models.DefaultCategories {
		c := def
		c.OwnerID = s.ownerID
		if _, err := s.remote.CreateCategory(ctx, c); err != nil {
			if errors.Is(err, common.ErrConflict) {
				continue
			}
			return fmt.Errorf("bootstrap category %q: %w", def.Name, err)
		}
	}
	return nil
}

func (s *VaultService) loadDocumentsFromCache(ctx context.Context, t refreshTag) error {
	snap, err := s.cache.Load(ctx)
	if err != nil {
		// both stores failed: keep the previous collection
		if s.current(t) {
			s.lastError = err.Error()
		}
		return err
	}

	docs := filterByOwner(snap.Documents, t.owner)
	now := s.now()
	for i := range docs {
		docs[i].Recompute(now)
	}
	sortDocuments(docs)

	if !s.current(t) {
		return nil
	}
	s.documents = docs
	s.lastError = ""
	return nil
}

func (s *VaultService) loadCategoriesFromCache(ctx context.Context, t refreshTag) error {
	snap, err := s.cache.Load(ctx)
	if err != nil {
		if s.current(t) {
			s.lastError = err.Error()
		}
		return err
	}

	cats := make([]models.Category, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		if c.OwnerID == t.owner {
			cats = append(cats, c)
		}
	}

	if !s.current(t) {
		return nil
	}
	s.categories = cats
	s.lastError = ""
	return nil
}

// AddDocument stores a new document. In remote mode the write goes through
// the server and the collection is reloaded; the in-memory state is never
// mutated speculatively. In local mode the document is applied
// optimistically with a locally-generated id and rolled back if the cache
// write fails.
func (s *VaultService) AddDocument(ctx context.Context, doc models.Document) (string, error) {
	if err := s.requireOwner(); err != nil {
		return "", err
	}
	doc.OwnerID = s.ownerID

	if s.modes.Mode() == models.ModeRemote {
		id, err := s.remote.CreateDocument(ctx, doc)
		if err != nil {
			s.lastError = err.Error()
			return "", err
		}
		return id, s.RefreshDocuments(ctx)
	}

	now := s.now()
	doc.ID = s.newLocalID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Recompute(now)

	err := s.mutateLocal(ctx, func() {
		s.documents = append([]models.Document{doc}, s.documents...)
	})
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// UpdateDocument merges a partial update into one document.
func (s *VaultService) UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) error {
	if err := s.requireOwner(); err != nil {
		return err
	}

	if s.modes.Mode() == models.ModeRemote {
		if err := s.remote.UpdateDocument(ctx, id, patch); err != nil {
			s.lastError = err.Error()
			return err
		}
		return s.RefreshDocuments(ctx)
	}

	idx := indexDocument(s.documents, id)
	if idx < 0 {
		return fmt.Errorf("%w: document %s", common.ErrNotFound, id)
	}
	now := s.now()
	return s.mutateLocal(ctx, func() {
		d := &s.documents[idx]
		d.Apply(patch)
		d.UpdatedAt = now
		d.Recompute(now)
	})
}

// DeleteDocument removes one document by id.
func (s *VaultService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}

	if s.modes.Mode() == models.ModeRemote {
		if err := s.remote.DeleteDocument(ctx, id); err != nil {
			s.lastError = err.Error()
			return err
		}
		return s.RefreshDocuments(ctx)
	}

	return s.mutateLocal(ctx, func() {
		s.documents = removeDocuments(s.documents, func(d models.Document) bool { return d.ID == id })
	})
}

// AddCategory stores a new category.
func (s *VaultService) AddCategory(ctx context.Context, cat models.Category) (string, error) {
	if err := s.requireOwner(); err != nil {
		return "", err
	}
	cat.OwnerID = s.ownerID

	if s.modes.Mode() == models.ModeRemote {
		id, err := s.remote.CreateCategory(ctx, cat)
		if err != nil {
			s.lastError = err.Error()
			return "", err
		}
		return id, s.RefreshCategories(ctx)
	}

	now := s.now()
	cat.ID = s.newLocalID()
	cat.CreatedAt = &now
	cat.UpdatedAt = &now

	err := s.mutateLocal(ctx, func() {
		s.categories = append(s.categories, cat)
	})
	if err != nil {
		return "", err
	}
	return cat.ID, nil
}

// UpdateCategory merges a partial update into one category.
func (s *VaultService) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	if err := s.requireOwner(); err != nil {
		return err
	}

	if s.modes.Mode() == models.ModeRemote {
		if err := s.remote.UpdateCategory(ctx, id, patch); err != nil {
			s.lastError = err.Error()
			return err
		}
		return s.RefreshCategories(ctx)
	}

	idx := indexCategory(s.categories, id)
	if idx < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	now := s.now()
	return s.mutateLocal(ctx, func() {
		c := &s.categories[idx]
		c.Apply(patch)
		c.UpdatedAt = &now
	})
}

// DeleteCategory removes a category. With DeletePolicyDelete every
// referencing document is removed too; with DeletePolicyMove they are
// reassigned to destID first. Policy violations are rejected before any
// I/O happens.
//
// The remote backend offers no cross-document transaction, so the cascade
// is a compensating-action sequence: referencing documents are written
// before the category itself, and a partial failure leaves the system in a
// state a refresh will surface honestly rather than pretend atomicity.
func (s *VaultService) DeleteCategory(ctx context.Context, id string, policy DeletePolicy, destID string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}

	if indexCategory(s.categories, id) < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	switch policy {
	case DeletePolicyDelete:
	case DeletePolicyMove:
		if destID == "" {
			return fmt.Errorf("%w: move policy requires a destination category", common.ErrInvalidArgument)
		}
		if destID == id {
			return fmt.Errorf("%w: cannot move documents to the category being deleted", common.ErrInvalidArgument)
		}
		if indexCategory(s.categories, destID) < 0 {
			return fmt.Errorf("%w: destination category %s does not exist", common.ErrInvalidArgument, destID)
		}
	default:
		return fmt.Errorf("%w: unknown delete policy %q", common.ErrInvalidArgument, policy)
	}

	if s.modes.Mode() == models.ModeRemote {
		return s.deleteCategoryRemote(ctx, id, policy, destID)
	}
	return s.deleteCategoryLocal(ctx, id, policy, destID)
}

func (s *VaultService) deleteCategoryRemote(ctx context.Context, id string, policy DeletePolicy, destID string) error {
	// documents first, category last: a concurrent refresh may observe a
	// half-finished cascade, but never a deleted category with orphaned
	// documents still referencing it
	for _, d := range s.documents {
		if d.CategoryID != id {
			continue
		}
		var err error
		if policy == DeletePolicyMove {
			dest := destID
			err = s.remote.UpdateDocument(ctx, d.ID, models.DocumentPatch{CategoryID: &dest})
		} else {
			err = s.remote.DeleteDocument(ctx, d.ID)
		}
		if err != nil {
			s.lastError = err.Error()
			// resync so the partially-completed cascade is visible
			_ = s.RefreshDocuments(ctx)
			return fmt.Errorf("cascade on document %s: %w", d.ID, err)
		}
	}

	if err := s.remote.DeleteCategory(ctx, id); err != nil {
		s.lastError = err.Error()
		_ = s.RefreshDocuments(ctx)
		return err
	}

	if err := s.RefreshCategories(ctx); err != nil {
		return err
	}
	return s.RefreshDocuments(ctx)
}

func (s *VaultService) deleteCategoryLocal(ctx context.Context, id string, policy DeletePolicy, destID string) error {
	now := s.now()
	return s.mutateLocal(ctx, func() {
		if policy == DeletePolicyMove {
			for i := range s.documents {
				if s.documents[i].CategoryID == id {
					s.documents[i].CategoryID = destID
					s.documents[i].UpdatedAt = now
				}
			}
		} else {
			s.documents = removeDocuments(s.documents, func(d models.Document) bool { return d.CategoryID == id })
		}

		cats := make([]models.Category, 0, len(s.categories))
		for _, c := range s.categories {
			if c.ID != id {
				cats = append(cats, c)
			}
		}
		s.categories = cats
	})
}

// IsDefaultCategory is the capability check the presentation layer uses to
// keep default categories out of delete/move-source pickers. The engine
// still functions correctly if a caller bypasses it.
func (s *VaultService) IsDefaultCategory(cat models.Category) bool {
	return models.IsDefaultCategory(cat)
}

func (s *VaultService) requireOwner() error {
	if s.ownerID == "" {
		return common.ErrNotAuthenticated
	}
	return nil
}

// mutateLocal runs one optimistic mutation over the in-memory collections
// and persists the result as a cache snapshot. On persistence failure both
// collections are rolled back to their pre-mutation state.
func (s *VaultService) mutateLocal(ctx context.Context, mutate func()) error {
	beforeDocs := append([]models.Document(nil), s.documents...)
	beforeCats := append([]models.Category(nil), s.categories...)

	err := runOptimistic(ctx, optimisticOp{
		apply: mutate,
		persist: func(ctx context.Context) error {
			return s.cache.Save(ctx, s.documents, s.categories)
		},
		rollback: func() {
			s.documents = beforeDocs
			s.categories = beforeCats
		},
	})
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	s.lastError = ""
	return nil
}

func sortDocuments(docs []models.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
}

func filterByOwner(docs []models.Document, ownerID string) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out
}

func indexDocument(docs []models.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

func indexCategory(cats []models.Category, id string) int {
	for i := range cats {
		if cats[i].ID == id {
			return i
		}
	}
	return -1
}

func removeDocuments(docs []models.Document, drop func(models.Document) bool) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if !drop(d) {
			out = append(out, d)
		}
	}
	return out
}
