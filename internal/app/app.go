package app

import (
	"fmt"
	"natours/internal/app/deps"
	"natours/internal/app/services"
	"natours/internal/core/domain/logging"
	drl "natours/internal/core/domain/rate_limiter"
	"natours/internal/http/handlers/auth"
	loginwithemail "natours/internal/http/handlers/auth/log_in_with_email"
	resetpassword "natours/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "natours/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "natours/internal/http/handlers/auth/sign_up_with_email"
	"natours/internal/http/handlers/ratelimiting"
	changepassword "natours/internal/http/handlers/user/change_password"
	deleteme "natours/internal/http/handlers/user/delete_me"
	listusers "natours/internal/http/handlers/user/list_users"
	me "natours/internal/http/handlers/user/me"
	updateuser "natours/internal/http/handlers/user/update_user"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const MAX_BODY_SIZE = 10 << 10

var API_RATE_LIMIT = drl.Limit{Interval: drl.Hour, Value: 100}

type RouterOptions struct {
	Logger         logging.Logger
	RateLimiter    drl.RateLimiter
	AllowedOrigins []string
	RequestTimeout time.Duration
	IsTestMode     bool
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := NewRouter(s, RouterOptions{
		Logger:         deps.Logger,
		RateLimiter:    deps.RateLimiter,
		AllowedOrigins: deps.Config.AllowedOrigins,
		RequestTimeout: deps.Config.RequestTimeout,
		IsTestMode:     deps.Config.IsTestMode,
	})
	return &http.Server{
		Handler:           router,
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(s *services.Services, opts RouterOptions) http.Handler {
	usersRouter := chi.NewRouter()
	usersRouter.Method(http.MethodPost, "/signup", signupwithemail.New(s.SignUpWithEmail))
	usersRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	usersRouter.Method(
		http.MethodPost,
		"/forgotPassword",
		sendpasswordresettoken.New(s.SendPasswordResetToken, opts.IsTestMode),
	)
	usersRouter.Method(
		http.MethodPatch,
		"/resetPassword/{"+resetpassword.TOKEN_URL_PARAM+"}",
		resetpassword.New(s.ResetPassword),
	)

	usersRouter.Group(func(r chi.Router) {
		r.Use(auth.SetAuthTokenToContext)
		r.Method(http.MethodPatch, "/updateMyPassword", changepassword.New(s.ChangePassword))
		r.Method(http.MethodGet, "/me", me.New(s.GetMe))
		r.Method(http.MethodPatch, "/updateMe", updateuser.New(s.UpdateUser))
		r.Method(http.MethodDelete, "/deleteMe", deleteme.New(s.DeactivateUser))
		r.Method(http.MethodGet, "/", listusers.New(s.ListUsers))
	})

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(opts.RequestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Route("/api", func(r chi.Router) {
		r.Use(ratelimiting.ByClientIP(opts.Logger, opts.RateLimiter, API_RATE_LIMIT))
		r.Use(middleware.RequestSize(MAX_BODY_SIZE))
		r.Mount("/v1/users", usersRouter)
	})

	return router
}
