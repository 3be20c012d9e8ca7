// Package users declares the credential store: registered identities keyed
// by email.
package users

import (
	"context"

	"github.com/bannakon/zentasks/internal/server/models"
)

type Repository interface {
	// Create stores a new user and fills its ID and CreatedAt.
	// Returns common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns common.ErrorNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
