package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/dbx"
	"github.com/docvault-app/docvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const documentColumns = `id, user_id, title, name, description, payload, file_name, content_type, size, storage_key, category_id, created_at, updated_at, expires_at`

func scanDocument(row interface{ Scan(...any) error }, d *models.Document) error {
	return row.Scan(&d.ID, &d.UserID, &d.Title, &d.Name, &d.Description,
		&d.Payload, &d.FileName, &d.ContentType, &d.Size, &d.StorageKey,
		&d.CategoryID, &d.CreatedAt, &d.UpdatedAt, &d.ExpiresAt)
}

// ListByUser returns the user's documents, newest first with the id as a
// deterministic tie-break.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		 WHERE user_id = $1 AND id = $2
		 `

	var d models.Document
	err := scanDocument(r.db.QueryRowContext(ctx, query, userID, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (id, user_id, title, name, description, payload, file_name, content_type, size, storage_key, category_id, created_at, updated_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		doc.ID, doc.UserID, doc.Title, doc.Name, doc.Description,
		doc.Payload, doc.FileName, doc.ContentType, doc.Size, doc.StorageKey,
		doc.CategoryID, doc.CreatedAt, doc.UpdatedAt, doc.ExpiresAt).Scan(&doc.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) Update(ctx context.Context, doc *models.Document) error {
	query :=
		`UPDATE documents
		 SET title = $3, name = $4, description = $5, payload = $6, file_name = $7,
		     content_type = $8, size = $9, storage_key = $10, category_id = $11,
		     updated_at = $12, expires_at = $13
		 WHERE user_id = $1 AND id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		doc.UserID, doc.ID, doc.Title, doc.Name, doc.Description,
		doc.Payload, doc.FileName, doc.ContentType, doc.Size, doc.StorageKey,
		doc.CategoryID, doc.UpdatedAt, doc.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM documents WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
