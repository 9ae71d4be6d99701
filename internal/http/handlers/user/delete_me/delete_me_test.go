package deleteme

import (
	"context"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/services"
	service "natours/internal/core/services/deactivate_user"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteMeHandler(t *testing.T) {
	cases := []struct {
		id             string
		serviceErr     error
		expectedStatus int
	}{
		{id: "success", expectedStatus: http.StatusNoContent},
		{
			id:             "unauthenticated",
			serviceErr:     e.NewUnauthenticatedError(e.ReasonMissingCredential),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			stub := services.ServiceFunc[service.Input, service.Result](
				func(ctx context.Context, input service.Input) (service.Result, error) {
					return service.Result{}, testcase.serviceErr
				},
			)
			rr := httptest.NewRecorder()

			New(stub).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/deleteMe", nil))

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			if testcase.serviceErr == nil {
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}
