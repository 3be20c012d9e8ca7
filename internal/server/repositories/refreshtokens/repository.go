// Package refreshtokens declares the session record store: long-lived refresh
// tokens, each bound to exactly one user.
package refreshtokens

import (
	"context"

	"github.com/bannakon/zentasks/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token and fills its ID and CreatedAt.
	// A token string that already exists yields common.ErrorAlreadyExists.
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)

	// Find looks up a refresh token by its opaque token string, together with
	// the owner's email. Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by id. Returns common.ErrorNotFound when
	// nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
