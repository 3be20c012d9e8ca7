package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/logging"
	"github.com/bannakon/zentasks/internal/server/identity"
	"github.com/bannakon/zentasks/internal/server/models"
)

// TokenVerifier is the part of the token issuer the HTTP layer needs.
type TokenVerifier interface {
	ExtractSubject(token string) (string, error)
	Verify(token string) bool
}

type UserService interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticator resolves the bearer token of a request into an identity.
// It never rejects a request: handlers that need an identity check for it.
type Authenticator struct {
	tokens TokenVerifier
	users  UserService
	logger logging.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserService, l logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: l.With("module", "authenticator")}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := a.authenticate(r); id != nil {
			r = r.WithContext(identity.Set(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate returns nil when the request stays anonymous.
func (a *Authenticator) authenticate(r *http.Request) *identity.Identity {
	token, ok := bearerToken(r)
	if !ok {
		return nil
	}

	ctx := r.Context()
	if _, ok := identity.Get(ctx); ok {
		return nil
	}

	email, err := a.tokens.ExtractSubject(token)
	if err != nil {
		return nil
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if !isNotFound(err) {
			a.logger.Error(ctx, "user lookup failed", "error", err)
		}
		return nil
	}

	if !a.tokens.Verify(token) {
		return nil
	}

	return identity.New(user, token)
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(header, common.BearerPrefix), true
}
