// Package identity carries the authenticated user of a request through its
// context.
package identity

import (
	"context"
	"slices"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/models"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is the resolved user of a request together with the access token
// it presented.
type Identity struct {
	User        *models.User
	Authorities []string
	Token       string
}

// New builds an Identity with the default user authority.
func New(user *models.User, token string) *Identity {
	return &Identity{
		User:        user,
		Authorities: []string{common.AuthorityUser},
		Token:       token,
	}
}

// Email returns the user's email, or "" when no user is attached.
func (i *Identity) Email() string {
	if i == nil || i.User == nil {
		return ""
	}
	return i.User.Email
}

func (i *Identity) HasAuthority(authority string) bool {
	return i != nil && slices.Contains(i.Authorities, authority)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok && id != nil
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
