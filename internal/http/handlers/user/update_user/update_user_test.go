package updateuser

import (
	"context"
	c "natours/internal/core/domain/common"
	"natours/internal/core/domain/user"
	service "natours/internal/core/services/update_user"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if input.HasPasswordFields {
		return result, user.ErrPasswordUpdateNotAllowed
	}
	return service.Result{User: user.User{ID: "user-1", Name: "B"}}, nil
}

func TestUpdateUserHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "name only",
			body:           `{"name":"B"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Name: c.NewOptional("B", true)},
		},
		{
			id:             "email is normalized",
			body:           `{"email":"B@X.com"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Email: c.NewOptional(c.Email("b@x.com"), true)},
		},
		{
			id:             "empty body",
			body:           `{}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{},
		},
		{
			id:             "empty name",
			body:           `{"name":""}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "invalid email",
			body:           `{"email":"b-x.com"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password is rejected",
			body:           `{"name":"B","password":"new-secret"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  &service.Input{Name: c.NewOptional("B", true), HasPasswordFields: true},
		},
		{
			id:             "password confirmation is rejected",
			body:           `{"passwordConfirm":"new-secret"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  &service.Input{HasPasswordFields: true},
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/updateMe", strings.NewReader(testcase.body))
			stub := &stubService{}
			rr := httptest.NewRecorder()

			New(stub).ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, stub.input)
		})
	}
}
