package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/auth"
	"github.com/bannakon/zentasks/internal/server/config"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/repositories/repomanager"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult is returned on a successful login. ExpiresIn is the access
// token lifetime in seconds.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthService handles registration, login and logout.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	passwords   *auth.PasswordHasher
	sessions    *SessionManager
}

// NewAuthService hashes passwords with the bcrypt cost from cfg.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, tokens *auth.TokenIssuer, sessions *SessionManager) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		passwords:   auth.NewPasswordHasher(cfg.PasswordHashCost),
		sessions:    sessions,
	}
}

// Register creates a user. The email is matched exactly; an existing one
// yields common.ErrEmailAlreadyExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailAlreadyExists
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must not exceed 72 bytes", common.ErrValidation)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	}

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues an access token and a refresh
// token. Unknown email and wrong password both yield
// common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.passwords.CompareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.passwords.Compare(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	access, err := s.tokens.Mint(user.Email)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: session.Token,
		ExpiresIn:    s.tokens.LifetimeSeconds(),
	}, nil
}

// Logout revokes refreshToken on behalf of the user with email. The token
// must belong to that user; otherwise common.ErrorUnauthorized is returned
// and the token is kept.
func (s *AuthService) Logout(ctx context.Context, email, refreshToken string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrRefreshTokenNotFound
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}

		if token.UserEmail != user.Email {
			return common.ErrorUnauthorized
		}

		if err := repo.Delete(ctx, token.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrRefreshTokenNotFound
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		return nil
	})
}
