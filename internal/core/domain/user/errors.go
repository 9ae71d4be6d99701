package user

import (
	e "natours/internal/core/domain/errors"
)

var (
	ErrUserDoesNotExist          = e.NewNotFoundError("user")
	ErrEmailAlreadyExists        = e.NewConflictError("email")
	ErrInvalidCredentials        = e.NewUnauthenticatedError(e.ReasonInvalidCredentials)
	ErrIncorrectCurrentPassword  = e.NewUnauthenticatedError(e.ReasonIncorrectPassword)
	ErrInvalidPasswordResetToken = e.NewInvalidOrExpiredTokenError()
	ErrPasswordConfirmMismatch   = e.NewValidationError("passwordConfirm", "passwords are not the same")
	ErrPasswordUpdateNotAllowed  = e.NewValidationError(
		"password",
		"this route is not for password updates, please use /updateMyPassword",
	)
)
