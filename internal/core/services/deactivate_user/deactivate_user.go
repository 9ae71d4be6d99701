package deactivateuser

import (
	"context"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
)

type Input struct {
	UserID user.ID
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.UserID = u.ID
	return i
}

type Result struct{}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := s.userRepository.Deactivate(ctx, input.UserID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}
	s.log.Info(ctx, "User has been deactivated.", logging.Entry("userID", input.UserID))
	return result, nil
}
