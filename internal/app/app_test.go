package app

import (
	"encoding/json"
	"natours/internal/app/deps"
	"natours/internal/app/services"
	"natours/internal/config"
	"natours/internal/core/domain/logging"
	drl "natours/internal/core/domain/rate_limiter"
	uow "natours/internal/core/domain/unit_of_work"
	"natours/internal/core/domain/user"
	sendpasswordresettoken "natours/internal/http/handlers/auth/send_password_reset_token"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const RESET_TOKEN = "reset-token"

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	UserRepository *user.FakeUserRepository
	Sender         *user.FakePasswordResetTokenSender
	RateLimiter    *drl.FakeRateLimiter
	APIRateLimiter *drl.FakeRateLimiter
	Router         http.Handler
	now            time.Time
}

func (suite *testSuite) SetupTest() {
	suite.now = NOW
	now := func() time.Time { return suite.now }

	suite.UserRepository = user.NewFakeUserRepository()
	suite.Sender = user.NewFakePasswordResetTokenSender()
	suite.RateLimiter = drl.NewFakeRateLimiter(true)
	suite.APIRateLimiter = drl.NewFakeRateLimiter(true)
	tokens := user.NewFakeSessionTokens(time.Hour, now)

	d := &deps.Deps{
		Config: &config.Config{
			IsTestMode:       true,
			PasswordResetTTL: 10 * time.Minute,
			NotifierTimeout:  time.Second,
		},
		Logger:                   logging.NewFakeLogger(),
		Now:                      now,
		UnitOfWork:               uow.NewFakeUnitOfWorkWithRepository(suite.UserRepository),
		UserRepository:           suite.UserRepository,
		RateLimiter:              suite.RateLimiter,
		UserIDGenerator:          user.NewFakeIDGenerator("user"),
		SessionTokenIssuer:       tokens,
		SessionTokenVerifier:     tokens,
		PasswordHasher:           user.NewFakePasswordHasher(),
		PasswordResetter:         user.NewFakePasswordResetter(RESET_TOKEN),
		PasswordResetTokenSender: suite.Sender,
	}
	suite.Router = NewRouter(services.InitServices(d), RouterOptions{
		Logger:         d.Logger,
		RateLimiter:    suite.APIRateLimiter,
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
		IsTestMode:     true,
	})
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) do(method string, path string, body string, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/v1/users"+path, nil)
	} else {
		req = httptest.NewRequest(method, "/api/v1/users"+path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	suite.Router.ServeHTTP(rr, req)
	return rr
}

func (suite *testSuite) decode(rr *httptest.ResponseRecorder) map[string]interface{} {
	body := map[string]interface{}{}
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func (suite *testSuite) signUp(email string) string {
	rr := suite.do(
		http.MethodPost,
		"/signup",
		`{"name":"A","email":"`+email+`","password":"secret123","passwordConfirm":"secret123"}`,
		"",
	)
	suite.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return suite.decode(rr)["token"].(string)
}

func (suite *testSuite) TestSignUpThenLogIn() {
	assert := suite.Require()

	token := suite.signUp("a@x.com")
	rr := suite.do(http.MethodGet, "/me", "", token)
	assert.Equal(http.StatusOK, rr.Code)
	me := suite.decode(rr)["user"].(map[string]interface{})
	assert.Equal("a@x.com", me["email"])
	assert.Equal("user", me["role"])
	assert.NotContains(rr.Body.String(), "password")

	rr = suite.do(http.MethodPost, "/login", `{"email":"A@x.com","password":"secret123"}`, "")
	assert.Equal(http.StatusOK, rr.Code)
	assert.NotEmpty(suite.decode(rr)["token"])
	assert.Equal([]string{"log-in-with-email::a@x.com"}, suite.RateLimiter.Keys)
}

func (suite *testSuite) TestLogInWithWrongPassword() {
	suite.signUp("a@x.com")

	rr := suite.do(http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`, "")

	assert := suite.Require()
	assert.Equal(http.StatusUnauthorized, rr.Code)
	assert.Equal("incorrect email or password", suite.decode(rr)["error"])
}

func (suite *testSuite) TestLogInRateLimited() {
	suite.signUp("a@x.com")
	suite.RateLimiter.IsAllowed = false

	rr := suite.do(http.MethodPost, "/login", `{"email":"a@x.com","password":"secret123"}`, "")

	suite.Require().Equal(http.StatusTooManyRequests, rr.Code)
}

func (suite *testSuite) TestProtectedRoutesRequireToken() {
	paths := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/me"},
		{method: http.MethodPatch, path: "/updateMe"},
		{method: http.MethodPatch, path: "/updateMyPassword"},
		{method: http.MethodDelete, path: "/deleteMe"},
		{method: http.MethodGet, path: "/"},
	}
	for _, p := range paths {
		rr := suite.do(p.method, p.path, `{}`, "")
		suite.Require().Equal(http.StatusUnauthorized, rr.Code, p.path)
	}
}

func (suite *testSuite) TestForgotPasswordThenReset() {
	assert := suite.Require()
	oldToken := suite.signUp("a@x.com")

	rr := suite.do(http.MethodPost, "/forgotPassword", `{"email":"a@x.com"}`, "")
	assert.Equal(http.StatusOK, rr.Code)
	resetToken := rr.Header().Get(sendpasswordresettoken.TEST_TOKEN_HEADER)
	assert.Equal(RESET_TOKEN, resetToken)
	assert.Equal(1, suite.Sender.SentCount())

	suite.now = NOW.Add(time.Minute)
	body := `{"password":"new-secret","passwordConfirm":"new-secret"}`
	rr = suite.do(http.MethodPatch, "/resetPassword/"+resetToken, body, "")
	assert.Equal(http.StatusOK, rr.Code)
	newToken := suite.decode(rr)["token"].(string)

	rr = suite.do(http.MethodPatch, "/resetPassword/"+resetToken, body, "")
	assert.Equal(http.StatusBadRequest, rr.Code)

	assert.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/me", "", oldToken).Code)
	assert.Equal(http.StatusOK, suite.do(http.MethodGet, "/me", "", newToken).Code)

	rr = suite.do(http.MethodPost, "/login", `{"email":"a@x.com","password":"new-secret"}`, "")
	assert.Equal(http.StatusOK, rr.Code)
}

func (suite *testSuite) TestForgotPasswordUnknownEmail() {
	rr := suite.do(http.MethodPost, "/forgotPassword", `{"email":"missing@x.com"}`, "")

	suite.Require().Equal(http.StatusNotFound, rr.Code)
}

func (suite *testSuite) TestForgotPasswordDeliveryFailure() {
	suite.signUp("a@x.com")
	suite.Sender.ReturnError = true

	rr := suite.do(http.MethodPost, "/forgotPassword", `{"email":"a@x.com"}`, "")

	assert := suite.Require()
	assert.Equal(http.StatusServiceUnavailable, rr.Code)
	assert.Empty(rr.Header().Get(sendpasswordresettoken.TEST_TOKEN_HEADER))
	u, _ := suite.UserRepository.Get("user-1")
	assert.False(u.PasswordResetTokenHash.IsPresent)
}

func (suite *testSuite) TestResetTokenExpires() {
	suite.signUp("a@x.com")
	rr := suite.do(http.MethodPost, "/forgotPassword", `{"email":"a@x.com"}`, "")
	suite.Require().Equal(http.StatusOK, rr.Code)

	suite.now = NOW.Add(10*time.Minute + time.Second)
	body := `{"password":"new-secret","passwordConfirm":"new-secret"}`
	rr = suite.do(http.MethodPatch, "/resetPassword/"+RESET_TOKEN, body, "")

	suite.Require().Equal(http.StatusBadRequest, rr.Code)
}

func (suite *testSuite) TestChangePasswordInvalidatesOldToken() {
	assert := suite.Require()
	oldToken := suite.signUp("a@x.com")

	suite.now = NOW.Add(time.Second)
	rr := suite.do(
		http.MethodPatch,
		"/updateMyPassword",
		`{"passwordCurrent":"secret123","password":"new-secret","passwordConfirm":"new-secret"}`,
		oldToken,
	)
	assert.Equal(http.StatusOK, rr.Code)
	newToken := suite.decode(rr)["token"].(string)

	assert.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/me", "", oldToken).Code)
	assert.Equal(http.StatusOK, suite.do(http.MethodGet, "/me", "", newToken).Code)
}

func (suite *testSuite) TestUpdateMe() {
	assert := suite.Require()
	token := suite.signUp("a@x.com")
	suite.signUp("b@x.com")

	rr := suite.do(http.MethodPatch, "/updateMe", `{"name":"Renamed"}`, token)
	assert.Equal(http.StatusOK, rr.Code)
	assert.Equal("Renamed", suite.decode(rr)["user"].(map[string]interface{})["name"])

	rr = suite.do(http.MethodPatch, "/updateMe", `{"email":"b@x.com"}`, token)
	assert.Equal(http.StatusConflict, rr.Code)

	rr = suite.do(http.MethodPatch, "/updateMe", `{"password":"new-secret"}`, token)
	assert.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *testSuite) TestDeleteMeRevokesToken() {
	assert := suite.Require()
	token := suite.signUp("a@x.com")

	rr := suite.do(http.MethodDelete, "/deleteMe", "", token)
	assert.Equal(http.StatusNoContent, rr.Code)

	assert.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/me", "", token).Code)
	rr = suite.do(http.MethodPost, "/login", `{"email":"a@x.com","password":"secret123"}`, "")
	assert.Equal(http.StatusUnauthorized, rr.Code)
}

func (suite *testSuite) TestListUsersIsForAdminsOnly() {
	assert := suite.Require()
	adminToken := suite.signUp("admin@x.com")
	userToken := suite.signUp("a@x.com")
	suite.UserRepository.Users[0].Role = user.RoleAdmin

	assert.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/", "", userToken).Code)

	rr := suite.do(http.MethodGet, "/", "", adminToken)
	assert.Equal(http.StatusOK, rr.Code)
	assert.Equal(float64(2), suite.decode(rr)["results"])
}

func (suite *testSuite) TestOversizedBodyIsRejected() {
	name := strings.Repeat("a", MAX_BODY_SIZE)
	body := `{"name":"` + name + `","email":"a@x.com","password":"secret123","passwordConfirm":"secret123"}`

	rr := suite.do(http.MethodPost, "/signup", body, "")

	assert := suite.Require()
	assert.Equal(http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal("request body is too large", suite.decode(rr)["error"])
	assert.Empty(suite.UserRepository.Users)
}

func (suite *testSuite) TestRequestsAreLimitedByClientIP() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rr := httptest.NewRecorder()
	suite.Router.ServeHTTP(rr, req)

	assert := suite.Require()
	assert.Equal(http.StatusUnauthorized, rr.Code)
	assert.Equal([]string{"api::203.0.113.7"}, suite.APIRateLimiter.Keys)

	suite.APIRateLimiter.IsAllowed = false
	rr = suite.do(http.MethodPost, "/login", `{"email":"a@x.com","password":"secret123"}`, "")

	assert.Equal(http.StatusTooManyRequests, rr.Code)
	assert.Empty(suite.RateLimiter.Keys)
}
