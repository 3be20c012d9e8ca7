package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/repositories/repomanager"
)

// TodoInput holds the fields of a new task.
type TodoInput struct {
	Title     string
	Completed bool
}

// TodoPatch holds the fields to change; nil fields are left as they are.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

// TodoService implements task CRUD for one user at a time. Tasks of other
// users are reported as common.ErrTodoNotFound.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

// List returns the user's tasks; a non-nil completed filters by that flag.
func (s *TodoService) List(ctx context.Context, userID int64, completed *bool) ([]*models.Todo, error) {
	items, err := s.repomanager.Todos(s.db).List(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}
	return items, nil
}

func (s *TodoService) Get(ctx context.Context, userID, id int64) (*models.Todo, error) {
	t, err := s.repomanager.Todos(s.db).Find(ctx, userID, id)
	if err != nil {
		return nil, todoError("error searching todo", err)
	}
	return t, nil
}

func (s *TodoService) Create(ctx context.Context, userID int64, in TodoInput) (*models.Todo, error) {
	t, err := s.repomanager.Todos(s.db).Create(ctx, &models.Todo{
		UserID:    userID,
		Title:     in.Title,
		Completed: in.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}
	return t, nil
}

// Update applies patch to the user's task id.
func (s *TodoService) Update(ctx context.Context, userID, id int64, patch TodoPatch) (*models.Todo, error) {
	var updated *models.Todo

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)

		t, err := repo.Find(ctx, userID, id)
		if err != nil {
			return todoError("error searching todo", err)
		}

		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}

		updated, err = repo.Update(ctx, t)
		if err != nil {
			return todoError("error updating todo", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Todos(s.db).Delete(ctx, userID, id); err != nil {
		return todoError("error deleting todo", err)
	}
	return nil
}

func todoError(msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrTodoNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
