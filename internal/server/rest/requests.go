package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/bannakon/zentasks/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const maxBodyBytes = 1 << 20

var notBlank = validation.Match(regexp.MustCompile(`\S`)).Error("must not be blank")

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, notBlank, validation.RuneLength(1, 255)),
		validation.Field(&r.LastName, validation.Required, notBlank, validation.RuneLength(1, 255)),
		validation.Field(&r.Email, validation.Required, notBlank, validation.RuneLength(1, 255), is.Email),
		validation.Field(&r.Password, validation.Required, notBlank),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, notBlank),
		validation.Field(&r.Password, validation.Required, notBlank),
	)
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r LogoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required, notBlank),
	)
}

type TodoRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (r TodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, notBlank, validation.RuneLength(2, 255)),
	)
}

// UpdateTodoRequest leaves absent fields unchanged.
type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (r UpdateTodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.RuneLength(1, 255)),
	)
}

// decodeAndValidate reads a JSON body into dst and runs its validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validation.Validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.ErrorMalformedRequest
		}
		return errors.Join(common.ErrorMalformedRequest, err)
	}

	return newValidationError(dst.Validate())
}
