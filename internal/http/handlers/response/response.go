package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	e "natours/internal/core/domain/errors"
	ratelimiter "natours/internal/core/domain/rate_limiter"

	validation "github.com/go-ozzo/ozzo-validation"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
}

// RenderDecodeError renders a request body that could not be decoded as JSON.
func RenderDecodeError(rw http.ResponseWriter, err error) {
	var errTooLarge *http.MaxBytesError
	if errors.As(err, &errTooLarge) {
		RenderError(rw, "request body is too large", http.StatusRequestEntityTooLarge)
		return
	}
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

// RenderValidationErrors renders ozzo-validation errors of a request body
// as a map of field names to messages.
func RenderValidationErrors(rw http.ResponseWriter, err error) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}
	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	Render(rw, errorResponse{Error: "invalid input data", Fields: fields}, http.StatusBadRequest)
}

// RenderServiceError is the only place where errors returned by services are
// turned into HTTP statuses. Unknown errors never leak their message.
func RenderServiceError(rw http.ResponseWriter, err error) {
	var (
		errValidation      *e.ValidationError
		errUnauthenticated *e.UnauthenticatedError
		errForbidden       *e.ForbiddenError
		errNotFound        *e.NotFoundError
		errConflict        *e.ConflictError
		errToken           *e.InvalidOrExpiredTokenError
		errUnavailable     *e.ServiceUnavailableError
	)

	switch {
	case errors.As(err, &errValidation):
		res := errorResponse{Error: errValidation.Message}
		if errValidation.Field != "" {
			res.Fields = map[string]string{errValidation.Field: errValidation.Message}
		}
		Render(rw, res, http.StatusBadRequest)
	case errors.As(err, &errUnauthenticated):
		RenderError(rw, unauthenticatedMessage(errUnauthenticated.Reason), http.StatusUnauthorized)
	case errors.As(err, &errForbidden):
		RenderError(rw, "you do not have permission to perform this action", http.StatusForbidden)
	case errors.As(err, &errNotFound):
		RenderError(rw, fmt.Sprintf("%s not found", errNotFound.Entity), http.StatusNotFound)
	case errors.As(err, &errConflict):
		RenderError(rw, fmt.Sprintf("%s is already in use", errConflict.Field), http.StatusConflict)
	case errors.As(err, &errToken):
		RenderError(rw, "token is invalid or has expired", http.StatusBadRequest)
	case errors.As(err, &errUnavailable):
		RenderError(
			rw,
			"there was an error sending the email, try again later",
			http.StatusServiceUnavailable,
		)
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		RenderRateLimitExceeded(rw)
	case errors.Is(err, context.DeadlineExceeded):
		RenderError(rw, "request timed out", http.StatusGatewayTimeout)
	default:
		RenderInternalError(rw)
	}
}

func unauthenticatedMessage(reason e.UnauthenticatedReason) string {
	switch reason {
	case e.ReasonInvalidCredentials:
		return "incorrect email or password"
	case e.ReasonIncorrectPassword:
		return "your current password is wrong"
	default:
		return "you are not logged in or your session is no longer valid"
	}
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}

func RenderNoContent(rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusNoContent)
}
