package memory

import (
	"context"
	"sort"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/models"
)

type todosRepo struct {
	s *store
}

func (r *todosRepo) Create(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[todo.UserID]; !ok {
		return nil, common.ErrorNotFound
	}

	todo.ID = r.s.nextID()
	todo.CreatedAt = r.s.now()
	todo.UpdatedAt = todo.CreatedAt

	stored := *todo
	r.s.todos[todo.ID] = &stored

	return todo, nil
}

func (r *todosRepo) Find(_ context.Context, userID, id int64) (*models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.todos[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	found := *t
	return &found, nil
}

func (r *todosRepo) List(_ context.Context, userID int64, completed *bool) ([]*models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Todo, 0)
	for _, t := range r.s.todos {
		if t.UserID != userID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		item := *t
		result = append(result, &item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *todosRepo) Update(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.todos[todo.ID]
	if !ok || t.UserID != todo.UserID {
		return nil, common.ErrorNotFound
	}

	t.Title = todo.Title
	t.Completed = todo.Completed
	t.UpdatedAt = r.s.now()

	todo.CreatedAt = t.CreatedAt
	todo.UpdatedAt = t.UpdatedAt
	return todo, nil
}

func (r *todosRepo) Delete(_ context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.todos[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.todos, id)
	return nil
}
