package memory

import (
	"context"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/models"
)

type refreshTokensRepo struct {
	s *store
}

func (r *refreshTokensRepo) Create(_ context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[token.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.tokens[token.Token]; ok {
		return nil, common.ErrorAlreadyExists
	}

	token.ID = r.s.nextID()
	token.CreatedAt = r.s.now()

	stored := *token
	stored.UserEmail = ""
	r.s.tokens[token.Token] = &stored

	return token, nil
}

func (r *refreshTokensRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rt, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	owner, ok := r.s.users[rt.UserID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	found := *rt
	found.UserEmail = owner.Email
	return &found, nil
}

func (r *refreshTokensRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, rt := range r.s.tokens {
		if rt.ID == id {
			delete(r.s.tokens, key)
			return nil
		}
	}
	return common.ErrorNotFound
}
