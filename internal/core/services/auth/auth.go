package auth

import (
	"context"
	"errors"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

func WithAuthToken(ctx context.Context, token user.SessionToken) context.Context {
	return context.WithValue(ctx, CONTEXT_AUTH_TOKEN_KEY, token)
}

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	log            logging.Logger
	tokenVerifier  user.SessionTokenVerifier
	userRepository user.UserRepository
	inner          services.Service[T, S]
}

// WithAuthentication resolves the bearer token stored in the context into an
// active user and passes it to the inner service through its input.
// Every failure is reported as unauthenticated; the reason is only logged.
func WithAuthentication[T Input, S any](
	log logging.Logger,
	tokenVerifier user.SessionTokenVerifier,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenVerifier == nil {
		panic(e.NewNilArgumentError("tokenVerifier"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:            log,
		tokenVerifier:  tokenVerifier,
		userRepository: userRepository,
		inner:          inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken)
	if !ok || token == "" {
		return result, e.NewUnauthenticatedError(e.ReasonMissingCredential)
	}

	claims, err := s.tokenVerifier.VerifyToken(token)
	if err != nil {
		s.log.Info(ctx, "Session token rejected.", logging.Entry("err", err))
		return result, e.NewUnauthenticatedError(e.ReasonInvalidToken)
	}

	u, err := s.userRepository.GetByID(ctx, claims.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Session token subject does not exist or is not active.",
			logging.Entry("userID", claims.UserID),
		)
		return result, e.NewUnauthenticatedError(e.ReasonRevoked)
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", claims.UserID))
		return result, err
	}

	if u.ChangedPasswordAfter(claims.IssuedAt) {
		s.log.Info(
			ctx,
			"Session token was issued before the last password change.",
			logging.Entry("userID", u.ID),
			logging.Entry("issuedAt", claims.IssuedAt),
			logging.Entry("passwordChangedAt", u.PasswordChangedAt.Value),
		)
		return result, e.NewUnauthenticatedError(e.ReasonStaleCredential)
	}

	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
