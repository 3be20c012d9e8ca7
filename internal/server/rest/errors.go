package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/logging"
	validation "github.com/go-ozzo/ozzo-validation"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status           int          `json:"status"`
	Error            string       `json:"error"`
	Message          string       `json:"message"`
	Timestamp        time.Time    `json:"timestamp"`
	Path             string       `json:"path"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

// ValidationError carries the offending fields of a rejected request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return common.ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

// newValidationError converts ozzo field errors, sorted by field name.
// Any other error is returned unchanged.
func newValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make([]FieldError, 0, len(errs))
	for field, fe := range errs {
		fields = append(fields, FieldError{Field: field, Message: fe.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return &ValidationError{Fields: fields}
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

type errorMapping struct {
	target  error
	status  int
	label   string
	message string
}

var errorMappings = []errorMapping{
	{common.ErrorMalformedRequest, http.StatusBadRequest, "Bad Request", "Malformed request body"},
	{common.ErrEmailAlreadyExists, http.StatusBadRequest, "Bad Request", "Email already exists"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized", "Invalid credential"},
	{common.ErrMissingAuthHeader, http.StatusUnauthorized, "Unauthorized", "Missing or invalid Authorization header"},
	{common.ErrMalformedToken, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "Unauthorized", "Refresh token does not belong to the current user"},
	{common.ErrUserNotFound, http.StatusNotFound, "Not Found", "User not found"},
	{common.ErrRefreshTokenNotFound, http.StatusNotFound, "Not Found", "Refresh token not found"},
	{common.ErrTodoNotFound, http.StatusNotFound, "Not Found", "Todo not found for current user"},
}

// writeError translates err into an ErrorResponse. Unknown errors become a
// generic 500 and are logged.
func writeError(w http.ResponseWriter, r *http.Request, l logging.Logger, err error) {
	resp := ErrorResponse{
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Status = http.StatusBadRequest
		resp.Error = "Validation Failed"
		resp.Message = "Request validation failed"
		resp.ValidationErrors = verr.Fields
	case errors.Is(err, common.ErrValidation):
		resp.Status = http.StatusBadRequest
		resp.Error = "Validation Failed"
		resp.Message = err.Error()
	default:
		resp.Status = http.StatusInternalServerError
		resp.Error = "Internal Server Error"
		resp.Message = "An unexpected error occurred"
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				resp.Status, resp.Error, resp.Message = m.status, m.label, m.message
				break
			}
		}
	}

	if resp.Status == http.StatusInternalServerError {
		l.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	respondWithJSON(w, resp.Status, resp)
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int, label, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Status:    status,
		Error:     label,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrUserNotFound) || errors.Is(err, common.ErrorNotFound)
}
