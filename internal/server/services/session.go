package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/config"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionManager issues refresh tokens. It does not check passwords.
type SessionManager struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
	newToken                     func() string
}

// NewSessionManager takes the refresh token lifetime from cfg.
func NewSessionManager(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionManager {
	return &SessionManager{
		db:                           db,
		repomanager:                  m,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
		newToken:                     uuid.NewString,
	}
}

// CreateSession stores a fresh refresh token for the user with email.
// Returns common.ErrUserNotFound for an unknown email. A token collision
// is reported as an error and not retried.
func (s *SessionManager) CreateSession(ctx context.Context, email string) (*models.RefreshToken, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		UserEmail: user.Email,
		Token:     s.newToken(),
		Expires:   s.now().Add(s.refreshTokenValidityDuration),
	}

	created, err := s.repomanager.RefreshTokens(s.db).Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error creating refresh token: %w", err)
	}
	created.UserEmail = user.Email

	return created, nil
}
