package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/logging"
	"github.com/bannakon/zentasks/internal/server/identity"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/services"
	"github.com/gorilla/mux"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, email, refreshToken string) error
}

type TodoService interface {
	List(ctx context.Context, userID int64, completed *bool) ([]*models.Todo, error)
	Get(ctx context.Context, userID, id int64) (*models.Todo, error)
	Create(ctx context.Context, userID int64, in services.TodoInput) (*models.Todo, error)
	Update(ctx context.Context, userID, id int64, patch services.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Expiration   int64  `json:"expiration"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type TodoResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTodoResponse(t *models.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func newTodoListResponse(items []*models.Todo) []TodoResponse {
	res := make([]TodoResponse, 0, len(items))
	for _, t := range items {
		res = append(res, newTodoResponse(t))
	}
	return res
}

// Handlers serves the /api endpoints.
type Handlers struct {
	auth   AuthService
	users  UserService
	todos  TodoService
	tokens TokenVerifier
	logger logging.Logger
}

func NewHandlers(a AuthService, u UserService, t TodoService, tokens TokenVerifier, l logging.Logger) *Handlers {
	return &Handlers{
		auth:   a,
		users:  u,
		todos:  t,
		tokens: tokens,
		logger: l.With("module", "rest_handlers"),
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	_, err := h.auth.Register(r.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Register is successfully"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		Message:      "Login successfully",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Expiration:   res.ExpiresIn,
	})
}

// Logout checks the bearer token itself so that it works without a prior
// identity lookup.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.fail(w, r, common.ErrMissingAuthHeader)
		return
	}

	email, err := h.tokens.ExtractSubject(token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !h.tokens.Verify(token) {
		h.fail(w, r, common.ErrInvalidToken)
		return
	}

	var req LogoutRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.auth.Logout(r.Context(), email, req.RefreshToken); err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, UserResponse{
		ID:        id.User.ID,
		FirstName: id.User.FirstName,
		LastName:  id.User.LastName,
		Email:     id.User.Email,
	})
}

func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.todos.List(r.Context(), id.User.ID, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newTodoListResponse(items))
}

func (h *Handlers) FilterTodos(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	raw := r.URL.Query().Get("completed")
	if raw == "" {
		h.fail(w, r, fieldError("completed", "cannot be blank"))
		return
	}
	completed, err := strconv.ParseBool(raw)
	if err != nil {
		h.fail(w, r, fieldError("completed", "must be true or false"))
		return
	}

	items, err := h.todos.List(r.Context(), id.User.ID, &completed)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newTodoListResponse(items))
}

func (h *Handlers) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	todoID, err := todoIDFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.todos.Get(r.Context(), id.User.ID, todoID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newTodoResponse(t))
}

func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req TodoRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.todos.Create(r.Context(), id.User.ID, services.TodoInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, newTodoResponse(t))
}

func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	todoID, err := todoIDFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateTodoRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.todos.Update(r.Context(), id.User.ID, todoID, services.TodoPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newTodoResponse(t))
}

func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := currentIdentity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	todoID, err := todoIDFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.todos.Delete(r.Context(), id.User.ID, todoID); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// currentIdentity returns the identity attached by the Authenticator.
func currentIdentity(r *http.Request) (*identity.Identity, error) {
	if _, ok := bearerToken(r); !ok {
		return nil, common.ErrMissingAuthHeader
	}
	id, ok := identity.Get(r.Context())
	if !ok || id.User == nil {
		return nil, common.ErrInvalidToken
	}
	return id, nil
}

func todoIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, common.ErrTodoNotFound
	}
	return id, nil
}
