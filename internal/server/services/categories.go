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

// CategoryService owns the per-user category collection. Names are unique
// per user; the database constraint is the arbiter and a violation comes
// back as ErrConflict.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	repo := s.repomanager.Categories(s.db)
	return repo.ListByUser(ctx, userID)
}

func (s *CategoryService) Create(ctx context.Context, userID string, cat models.Category) (string, error) {
	if cat.Name == "" {
		return "", fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	cat.ID = uuid.NewString()
	cat.UserID = userID
	cat.CreatedAt = now
	cat.UpdatedAt = now

	repo := s.repomanager.Categories(s.db)
	created, err := repo.Create(ctx, &cat)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, patch models.CategoryPatch) error {
	repo := s.repomanager.Categories(s.db)

	cat, err := repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	cat.Apply(patch)
	cat.UpdatedAt = time.Now().UTC()
	return repo.Update(ctx, cat)
}

func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Categories(s.db)
	return repo.Delete(ctx, userID, id)
}
