package getme

import (
	"context"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
)

type Input struct {
	User user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log logging.Logger
}

// New returns the authenticated user as resolved by auth.WithAuthentication,
// which has already read the current record from the repository.
func New(log logging.Logger) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &service{log: log}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	s.log.Debug(ctx, "Current user requested.", logging.Entry("userID", input.User.ID))
	return Result{User: input.User}, nil
}
