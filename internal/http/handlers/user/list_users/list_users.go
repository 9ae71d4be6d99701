package listusers

import (
	e "natours/internal/core/domain/errors"
	"natours/internal/core/services"
	service "natours/internal/core/services/list_users"
	"natours/internal/http/handlers/response"
	"net/http"
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

type Result struct {
	Results int             `json:"results"`
	Users   []response.User `json:"users"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	users := make([]response.User, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, response.NewUser(u))
	}
	response.Render(rw, Result{Results: len(users), Users: users}, http.StatusOK)
}
