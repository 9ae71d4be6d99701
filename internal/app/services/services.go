package services

import (
	"natours/internal/app/deps"
	drl "natours/internal/core/domain/rate_limiter"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
	changepassword "natours/internal/core/services/change_password"
	deactivateuser "natours/internal/core/services/deactivate_user"
	getme "natours/internal/core/services/get_me"
	listusers "natours/internal/core/services/list_users"
	loginwithemail "natours/internal/core/services/log_in_with_email"
	ratelimiting "natours/internal/core/services/rate_limiting"
	resetpassword "natours/internal/core/services/reset_password"
	sendpasswordresettoken "natours/internal/core/services/send_password_reset_token"
	signupwithemail "natours/internal/core/services/sign_up_with_email"
	updateuser "natours/internal/core/services/update_user"
)

var (
	LOG_IN_RATE_LIMIT              = drl.Limit{Interval: drl.Hour, Value: 10}
	SEND_PASSWORD_RESET_RATE_LIMIT = drl.Limit{Interval: drl.Hour, Value: 3}
)

type Services struct {
	SignUpWithEmail        services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail         services.Service[loginwithemail.Input, loginwithemail.Result]
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword         services.Service[changepassword.Input, changepassword.Result]
	GetMe                  services.Service[getme.Input, getme.Result]
	UpdateUser             services.Service[updateuser.Input, updateuser.Result]
	DeactivateUser         services.Service[deactivateuser.Input, deactivateuser.Result]
	ListUsers              services.Service[listusers.Input, listusers.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.UserIDGenerator,
		deps.SessionTokenIssuer,
		deps.Now,
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		LOG_IN_RATE_LIMIT,
		loginwithemail.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.SessionTokenIssuer,
		),
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		SEND_PASSWORD_RESET_RATE_LIMIT,
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordResetter,
			deps.PasswordResetTokenSender,
			deps.Config.PasswordResetTTL,
			deps.Config.NotifierTimeout,
			deps.Now,
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordResetter,
		deps.PasswordHasher,
		deps.SessionTokenIssuer,
		deps.Now,
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.Logger,
		deps.SessionTokenVerifier,
		deps.UserRepository,
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.SessionTokenIssuer,
			deps.Now,
		),
	)
	s.GetMe = auth.WithAuthentication(
		deps.Logger,
		deps.SessionTokenVerifier,
		deps.UserRepository,
		getme.New(deps.Logger),
	)
	s.UpdateUser = auth.WithAuthentication(
		deps.Logger,
		deps.SessionTokenVerifier,
		deps.UserRepository,
		updateuser.New(
			deps.Logger,
			deps.UserRepository,
		),
	)
	s.DeactivateUser = auth.WithAuthentication(
		deps.Logger,
		deps.SessionTokenVerifier,
		deps.UserRepository,
		deactivateuser.New(
			deps.Logger,
			deps.UserRepository,
		),
	)
	s.ListUsers = auth.WithAuthentication(
		deps.Logger,
		deps.SessionTokenVerifier,
		deps.UserRepository,
		auth.WithRoles(
			[]user.Role{user.RoleAdmin},
			listusers.New(
				deps.Logger,
				deps.UserRepository,
			),
		),
	)

	return s
}
