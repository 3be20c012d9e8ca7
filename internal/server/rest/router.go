package rest

import (
	"net/http"

	"github.com/bannakon/zentasks/internal/logging"
	"github.com/gorilla/mux"
)

// NewRouter builds the /api routes. Every request passes through the
// authenticator; handlers that need an identity enforce it themselves.
func NewRouter(h *Handlers, authn *Authenticator, l logging.Logger) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	api.HandleFunc("/users/me", h.Me).Methods(http.MethodGet)

	api.HandleFunc("/todos", h.ListTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.CreateTodo).Methods(http.MethodPost)
	api.HandleFunc("/todos/filter", h.FilterTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id:[0-9]+}", h.GetTodo).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id:[0-9]+}", h.UpdateTodo).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id:[0-9]+}", h.DeleteTodo).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusNotFound, "Not Found", "No handler for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", "Method "+r.Method+" is not supported")
	})

	return recoverer(l)(authn.Middleware(r))
}

// recoverer turns a panic in a handler into a generic 500.
func recoverer(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					l.Error(r.Context(), "panic in handler", "path", r.URL.Path, "panic", p)
					writeStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
