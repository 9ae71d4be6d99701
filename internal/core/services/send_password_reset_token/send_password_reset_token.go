package sendpasswordresettoken

import (
	"context"
	"errors"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

type Result struct {
	// Token is handed back only so that test mode can echo it, callers
	// must never render it otherwise.
	Token user.PasswordResetToken
}

type service struct {
	log              logging.Logger
	userRepository   user.UserRepository
	passwordResetter user.PasswordResetter
	sender           user.PasswordResetTokenSender
	resetTTL         time.Duration
	notifierTimeout  time.Duration
	now              func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordResetter user.PasswordResetter,
	sender user.PasswordResetTokenSender,
	resetTTL time.Duration,
	notifierTimeout time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordResetter == nil {
		panic(e.NewNilArgumentError("passwordResetter"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if resetTTL <= 0 {
		panic(e.NewInvalidStateError("resetTTL must be positive"))
	}
	if notifierTimeout <= 0 {
		panic(e.NewInvalidStateError("notifierTimeout must be positive"))
	}
	return &service{
		log:              log,
		userRepository:   userRepository,
		passwordResetter: passwordResetter,
		sender:           sender,
		resetTTL:         resetTTL,
		notifierTimeout:  notifierTimeout,
		now:              now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Password reset requested for unknown email.",
			logging.Entry("email", input.Email),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", input.Email))
		return result, err
	}

	token, tokenHash, err := s.passwordResetter.GenerateToken()
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	expiresAt := s.now().Add(s.resetTTL)
	err = s.userRepository.SetPasswordResetToken(ctx, u.ID, tokenHash, expiresAt)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	if err := s.send(ctx, u, token); err != nil {
		s.log.Warning(
			ctx,
			"Could not deliver password reset token, rolling back.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		s.rollback(ctx, u.ID, tokenHash)
		return result, e.NewServiceUnavailableError(err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return Result{Token: token}, nil
}

func (s *service) send(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	ctx, cancel := context.WithTimeout(ctx, s.notifierTimeout)
	defer cancel()
	return s.sender.SendPasswordResetToken(ctx, u, token)
}

// rollback clears the digest written by this request even if the request has
// already been canceled. A digest written since by another request is kept.
func (s *service) rollback(ctx context.Context, userID user.ID, tokenHash user.PasswordResetTokenHash) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifierTimeout)
	defer cancel()
	if err := s.userRepository.ClearPasswordResetToken(ctx, userID, tokenHash); err != nil {
		s.log.Error(
			ctx,
			"Could not clear password reset token.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
	}
}
