// Package todos declares the task store. Every operation is scoped to the
// owning user; a task owned by someone else behaves as if it did not exist.
package todos

import (
	"context"

	"github.com/bannakon/zentasks/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// Find returns common.ErrorNotFound unless the task exists and belongs to userID.
	Find(ctx context.Context, userID, id int64) (*models.Todo, error)
	// List returns the user's tasks ordered by id. A non-nil completed
	// restricts the result to tasks with that flag.
	List(ctx context.Context, userID int64, completed *bool) ([]*models.Todo, error)
	// Update writes title and completed of todo, matched by ID and UserID.
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}
