package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/logging"
	"github.com/bannakon/zentasks/internal/server/identity"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	logoutErr   error
	logoutCalls int
	logoutEmail string
}

func (f *fakeAuthService) Register(context.Context, services.RegisterInput) (*models.User, error) {
	return &models.User{}, nil
}

func (f *fakeAuthService) Login(context.Context, string, string) (*services.LoginResult, error) {
	return &services.LoginResult{}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, email, _ string) error {
	f.logoutCalls++
	f.logoutEmail = email
	return f.logoutErr
}

type fakeTodoService struct {
	calls int
	err   error
}

func (f *fakeTodoService) List(context.Context, int64, *bool) ([]*models.Todo, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeTodoService) Get(context.Context, int64, int64) (*models.Todo, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeTodoService) Create(context.Context, int64, services.TodoInput) (*models.Todo, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeTodoService) Update(context.Context, int64, int64, services.TodoPatch) (*models.Todo, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeTodoService) Delete(context.Context, int64, int64) error {
	f.calls++
	return f.err
}

func logoutRequest(header string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"refreshToken":"rt"}`))
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestHandlers_Logout(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *fakeVerifier
		authErr    error
		wantStatus int
		wantCalls  int
	}{
		{"no header", "", &fakeVerifier{}, nil, http.StatusUnauthorized, 0},
		{"wrong scheme", "Token abc", &fakeVerifier{}, nil, http.StatusUnauthorized, 0},
		{"malformed token", "Bearer x", &fakeVerifier{subjectErr: common.ErrMalformedToken}, nil, http.StatusUnauthorized, 0},
		{"expired token", "Bearer x", &fakeVerifier{subject: "a@x.com"}, nil, http.StatusUnauthorized, 0},
		{"unknown token", "Bearer x", &fakeVerifier{subject: "a@x.com", valid: true}, common.ErrRefreshTokenNotFound, http.StatusNotFound, 1},
		{"ok", "Bearer x", &fakeVerifier{subject: "a@x.com", valid: true}, nil, http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &fakeAuthService{logoutErr: tt.authErr}
			h := NewHandlers(authSvc, &fakeUserFinder{}, &fakeTodoService{}, tt.verifier, logging.NewNop())

			w := httptest.NewRecorder()
			h.Logout(w, logoutRequest(tt.header))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, authSvc.logoutCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "a@x.com", authSvc.logoutEmail)
			}
		})
	}
}

func TestHandlers_NoHeaderTouchesNoStore(t *testing.T) {
	users := &fakeUserFinder{}
	todos := &fakeTodoService{}
	verifier := &fakeVerifier{}
	l := logging.NewNop()
	h := NewHandlers(&fakeAuthService{}, users, todos, verifier, l)
	router := NewRouter(h, NewAuthenticator(verifier, users, l), l)

	for _, path := range []string{"/api/users/me", "/api/todos", "/api/todos/filter?completed=true", "/api/todos/1"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	assert.Zero(t, users.calls)
	assert.Zero(t, todos.calls)
	assert.Zero(t, verifier.extractCalls)
}

func TestHandlers_TodoServiceError(t *testing.T) {
	todos := &fakeTodoService{err: errors.New("db down")}
	h := NewHandlers(&fakeAuthService{}, &fakeUserFinder{}, todos, &fakeVerifier{}, logging.NewNop())

	r := httptest.NewRequest(http.MethodDelete, "/api/todos/7", nil)
	r.Header.Set("Authorization", "Bearer t")
	r = mux.SetURLVars(r, map[string]string{"id": "7"})
	r = r.WithContext(identity.Set(r.Context(), identity.New(&models.User{ID: 1}, "t")))

	w := httptest.NewRecorder()
	h.DeleteTodo(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	assert.Equal(t, 1, todos.calls)
}

func TestRecoverer(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	recoverer(logging.NewNop())(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}
