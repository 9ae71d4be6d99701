package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceUnavailableUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("send: %w", context.DeadlineExceeded)
	err := fmt.Errorf("forgot password: %w", NewServiceUnavailableError(cause))

	var target *ServiceUnavailableError
	require.True(t, errors.As(err, &target))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSentinelsMatchByIdentity(t *testing.T) {
	errNotFound := NewNotFoundError("user")
	wrapped := fmt.Errorf("lookup: %w", errNotFound)

	require.ErrorIs(t, wrapped, errNotFound)
	require.False(t, errors.Is(wrapped, NewNotFoundError("user")))

	var target *NotFoundError
	require.True(t, errors.As(wrapped, &target))
	require.Equal(t, "user", target.Entity)
}

func TestMessages(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{err: NewValidationError("passwordConfirm", "passwords are not the same"), expected: "passwordConfirm: passwords are not the same"},
		{err: NewValidationError("", "bad input"), expected: "bad input"},
		{err: NewUnauthenticatedError(ReasonStaleCredential), expected: "unauthenticated: stale credential"},
		{err: NewForbiddenError("user"), expected: "role 'user' is not permitted"},
		{err: NewConflictError("email"), expected: "email already exists"},
		{err: NewNilArgumentError("log"), expected: "argument 'log' must not be nil"},
	}
	for _, testcase := range cases {
		t.Run(testcase.expected, func(t *testing.T) {
			require.Equal(t, testcase.expected, testcase.err.Error())
		})
	}
}
