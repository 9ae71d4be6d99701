package resetpassword

import (
	"encoding/json"
	"io"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	resetpassword "natours/internal/core/services/reset_password"
	"natours/internal/http/handlers/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

const TOKEN_URL_PARAM = "token"

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token           string `json:"-"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 256)),
		validation.Field(&i.PasswordConfirm, validation.Required),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderDecodeError(rw, err)
		return
	}
	input.Token = chi.URLParam(r, TOKEN_URL_PARAM)
	if err := input.Validate(); err != nil {
		response.RenderValidationErrors(rw, err)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Token:           user.PasswordResetToken(input.Token),
			NewPassword:     user.RawPassword(input.Password),
			PasswordConfirm: user.RawPassword(input.PasswordConfirm),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, response.NewUserWithToken(result.User, result.Token), http.StatusOK)
}
