package auth

import (
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"
	"natours/internal/core/services/auth"
	"natours/internal/http/handlers/response"
	"net/http"
	"strings"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 1024
)

func ParseToken(r *http.Request) (token user.SessionToken, ok bool) {
	header := r.Header.Get("authorization")
	if !strings.HasPrefix(header, AUTH_TOKEN_PREFIX) {
		return token, false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, AUTH_TOKEN_PREFIX))
	if raw == "" || len(raw) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return user.SessionToken(raw), true
}

// SetAuthTokenToContext only stores the bearer token, resolving it into a user
// is left to the authentication decorator of each protected service.
// Requests without a bearer token are rejected before the body is read.
func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ParseToken(r)
		if !ok {
			response.RenderServiceError(w, e.NewUnauthenticatedError(e.ReasonMissingCredential))
			return
		}
		r = r.WithContext(auth.WithAuthToken(r.Context(), token))
		next.ServeHTTP(w, r)
	})
}
