package changepassword

import (
	"context"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
	"time"
)

type Input struct {
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
	PasswordConfirm user.RawPassword
	User            user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

func (i Input) GetAuthenticatedUser() user.User {
	return i.User
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	tokenIssuer    user.SessionTokenIssuer
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.SessionTokenIssuer,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		passwordHasher: passwordHasher,
		userRepository: userRepository,
		tokenIssuer:    tokenIssuer,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.NewPassword != input.PasswordConfirm {
		return result, user.ErrPasswordConfirmMismatch
	}

	isCurrentPasswordValid, err := s.passwordHasher.ValidatePassword(
		ctx,
		input.CurrentPassword,
		input.User.PasswordHash,
	)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}
	if !isCurrentPasswordValid {
		s.log.Info(ctx, "Incorrect current password provided.", logging.Entry("userID", input.User.ID))
		return result, user.ErrIncorrectCurrentPassword
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(ctx, input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}
	u, err := s.userRepository.SetPassword(
		ctx,
		input.User.ID,
		newPasswordHash,
		user.PasswordChangedAt(s.now()),
	)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	token, err := s.tokenIssuer.IssueToken(u.ID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("userID", u.ID))
	return Result{User: u, Token: token}, nil
}
