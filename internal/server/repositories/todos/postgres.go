package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, todo.UserID, todo.Title, todo.Completed).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, id int64) (*models.Todo, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`
	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, completed *bool) ([]*models.Todo, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1
	`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		UPDATE todos SET title = $1, completed = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, todo.Title, todo.Completed, todo.ID, todo.UserID).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
