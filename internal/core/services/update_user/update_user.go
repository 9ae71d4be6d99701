package updateuser

import (
	"context"
	"errors"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
)

type Input struct {
	UserID user.ID
	Name   c.Optional[string]
	Email  c.Optional[c.Email]
	// HasPasswordFields is set by the transport when the request carries any
	// password field, those must go through the change password flow.
	HasPasswordFields bool
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.UserID = u.ID
	return i
}

type Result struct {
	User user.User
}

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
	if input.HasPasswordFields {
		return result, user.ErrPasswordUpdateNotAllowed
	}

	updatedUser, err := s.userRepository.Update(
		ctx,
		user.UpdateUserInput{
			ID:    input.UserID,
			Name:  input.Name,
			Email: input.Email,
		},
	)
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		s.log.Info(ctx, "Email is taken by another user.", logging.Entry("userID", input.UserID))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully updated.",
		logging.Entry("userID", updatedUser.ID),
	)
	result.User = updatedUser
	return result, nil
}
