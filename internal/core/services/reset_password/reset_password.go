package resetpassword

import (
	"context"
	"errors"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	uow "natours/internal/core/domain/unit_of_work"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"time"
)

type Input struct {
	Token           user.PasswordResetToken
	NewPassword     user.RawPassword
	PasswordConfirm user.RawPassword
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log              logging.Logger
	unitOfWork       uow.UnitOfWork
	passwordResetter user.PasswordResetter
	passwordHasher   user.PasswordHasher
	tokenIssuer      user.SessionTokenIssuer
	now              func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordResetter user.PasswordResetter,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.SessionTokenIssuer,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordResetter == nil {
		panic(e.NewNilArgumentError("passwordResetter"))
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
		log:              log,
		unitOfWork:       unitOfWork,
		passwordResetter: passwordResetter,
		passwordHasher:   passwordHasher,
		tokenIssuer:      tokenIssuer,
		now:              now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.NewPassword != input.PasswordConfirm {
		return result, user.ErrPasswordConfirmMismatch
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(ctx, input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	defer uow.Rollback(ctx)

	now := s.now()
	u, err := uow.Users().ConsumePasswordResetToken(ctx, s.passwordResetter.HashToken(input.Token), now)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		s.log.Info(ctx, "Invalid or expired password reset token provided.")
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	u, err = uow.Users().SetPassword(ctx, u.ID, newPasswordHash, user.PasswordChangedAt(now))
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	token, err := s.tokenIssuer.IssueToken(u.ID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", u.ID),
	)
	return Result{User: u, Token: token}, nil
}
