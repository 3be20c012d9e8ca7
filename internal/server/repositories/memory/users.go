package memory

import (
	"context"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/models"
)

type usersRepo struct {
	s *store
}

func (r *usersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = r.s.nextID()
	user.CreatedAt = r.s.now()

	stored := *user
	r.s.users[user.ID] = &stored
	r.s.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *usersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

func (r *usersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.byEmail[email]
	return ok, nil
}
