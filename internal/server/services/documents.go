package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/server/models"
	"github.com/docvault-app/docvault/internal/server/repositories/repomanager"
)

// DocumentService owns the per-user document collection. Timestamps are
// stamped here; values supplied by the caller are ignored.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{db: db, repomanager: m}
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.ListByUser(ctx, userID)
}

func (s *DocumentService) Create(ctx context.Context, userID string, doc models.Document) (string, error) {
	if doc.Title == "" {
		return "", fmt.Errorf("%w: title is required", common.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	doc.ID = uuid.NewString()
	doc.UserID = userID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	repo := s.repomanager.Documents(s.db)
	created, err := repo.Create(ctx, &doc)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update merges a partial update into the stored document. The read and the
// write are scoped to the owner, so a foreign id behaves like a missing one.
func (s *DocumentService) Update(ctx context.Context, userID, id string, patch models.DocumentPatch) error {
	repo := s.repomanager.Documents(s.db)

	doc, err := repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	doc.Apply(patch)
	doc.UpdatedAt = time.Now().UTC()
	return repo.Update(ctx, doc)
}

func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Documents(s.db)
	return repo.Delete(ctx, userID, id)
}
