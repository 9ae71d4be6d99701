package auth

import (
	"context"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
)

type AuthenticatedInput interface {
	GetAuthenticatedUser() user.User
}

type serviceWithRoles[T AuthenticatedInput, S any] struct {
	roles []user.Role
	inner services.Service[T, S]
}

// WithRoles must be wrapped by WithAuthentication.
func WithRoles[T AuthenticatedInput, S any](
	roles []user.Role,
	inner services.Service[T, S],
) services.Service[T, S] {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithRoles[T, S]{roles: roles, inner: inner}
}

func (s *serviceWithRoles[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	u := input.GetAuthenticatedUser()
	if !u.HasRole(s.roles...) {
		return result, e.NewForbiddenError(string(u.Role))
	}
	return s.inner.Run(ctx, input)
}
