package updateuser

import (
	"encoding/json"
	"io"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/services"
	service "natours/internal/core/services/update_user"
	"natours/internal/http/handlers/response"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`

	// Only decoded to detect an attempt to change the password here.
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
	PasswordCurrent *string `json:"passwordCurrent"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.NilOrNotEmpty, validation.Length(1, 256)),
		validation.Field(&i.Email, validation.NilOrNotEmpty, is.Email, validation.Length(0, 512)),
	)
}

func (i Input) hasPasswordFields() bool {
	return i.Password != nil || i.PasswordConfirm != nil || i.PasswordCurrent != nil
}

type Result struct {
	User response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderDecodeError(rw, err)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderValidationErrors(rw, err)
		return
	}

	serviceInput := service.Input{HasPasswordFields: input.hasPasswordFields()}
	if input.Name != nil {
		serviceInput.Name = c.NewOptional(*input.Name, true)
	}
	if input.Email != nil {
		serviceInput.Email = c.NewOptional(c.NewEmail(*input.Email), true)
	}

	result, err := h.service.Run(r.Context(), serviceInput)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, Result{User: response.NewUser(result.User)}, http.StatusOK)
}
