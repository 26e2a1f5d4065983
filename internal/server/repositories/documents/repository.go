package documents

import (
	"context"

	"github.com/docvault-app/docvault/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)
	Get(ctx context.Context, userID, id string) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, userID, id string) error
}
