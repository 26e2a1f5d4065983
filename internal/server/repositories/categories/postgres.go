package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

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

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	query :=
		`SELECT id, user_id, name, icon, description, created_at, updated_at FROM categories
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	cats := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cats, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	query :=
		`SELECT id, user_id, name, icon, description, created_at, updated_at FROM categories
		 WHERE user_id = $1 AND id = $2
		 `

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

// Create inserts a category. A (user_id, name) uniqueness violation maps to
// ErrConflict so retried bootstraps stay idempotent.
func (r *PostgresRepository) Create(ctx context.Context, cat *models.Category) (*models.Category, error) {
	query :=
		`INSERT INTO categories (id, user_id, name, icon, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		cat.ID, cat.UserID, cat.Name, cat.Icon, cat.Description, cat.CreatedAt, cat.UpdatedAt).Scan(&cat.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q already exists", common.ErrConflict, cat.Name)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cat, nil
}

func (r *PostgresRepository) Update(ctx context.Context, cat *models.Category) error {
	query :=
		`UPDATE categories
		 SET name = $3, icon = $4, description = $5, updated_at = $6
		 WHERE user_id = $1 AND id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		cat.UserID, cat.ID, cat.Name, cat.Icon, cat.Description, cat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q already exists", common.ErrConflict, cat.Name)
		}
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
	query := `DELETE FROM categories WHERE user_id = $1 AND id = $2`

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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
