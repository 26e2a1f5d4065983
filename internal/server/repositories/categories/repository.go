package categories

import (
	"context"

	"github.com/docvault-app/docvault/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Category, error)
	Get(ctx context.Context, userID, id string) (*models.Category, error)
	Create(ctx context.Context, cat *models.Category) (*models.Category, error)
	Update(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, userID, id string) error
}
