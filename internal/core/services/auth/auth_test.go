package auth

import (
	"context"
	"errors"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const USER_ID = user.ID("user-1")

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type input struct {
	User user.User
}

func (i input) WithAuthenticatedUser(u user.User) Input {
	i.User = u
	return i
}

func (i input) GetAuthenticatedUser() user.User {
	return i.User
}

type result struct {
	UserID user.ID
}

type stubService struct {
	WasCalled bool
}

func (s *stubService) Run(ctx context.Context, input input) (result, error) {
	s.WasCalled = true
	return result{UserID: input.User.ID}, nil
}

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	Tokens         *user.FakeSessionTokens
	Inner          *stubService
	Service        services.Service[input, result]
	now            time.Time
}

func (suite *testSuite) SetupTest() {
	suite.now = NOW
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.UserRepository.Users = []user.User{{
		ID:           USER_ID,
		Name:         "A",
		Email:        c.Email("a@x.com"),
		PasswordHash: user.PasswordHash("hash"),
		Role:         user.RoleUser,
		IsActive:     true,
		CreatedAt:    NOW,
	}}
	suite.Tokens = user.NewFakeSessionTokens(time.Hour, func() time.Time { return suite.now })
	suite.Inner = &stubService{}
	suite.Service = WithAuthentication[input, result](
		suite.Logger,
		suite.Tokens,
		suite.UserRepository,
		suite.Inner,
	)
}

func TestAuthenticationService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) issueToken() user.SessionToken {
	token, err := suite.Tokens.IssueToken(USER_ID)
	suite.Require().NoError(err)
	return token
}

func (suite *testSuite) assertUnauthenticated(err error, reason e.UnauthenticatedReason) {
	assert := suite.Require()
	var errUnauthenticated *e.UnauthenticatedError
	assert.True(errors.As(err, &errUnauthenticated), err)
	assert.Equal(reason, errUnauthenticated.Reason)
	assert.False(suite.Inner.WasCalled)
}

func (suite *testSuite) TestSuccess() {
	ctx := WithAuthToken(context.Background(), suite.issueToken())

	res, err := suite.Service.Run(ctx, input{})

	assert := suite.Require()
	assert.NoError(err)
	assert.True(suite.Inner.WasCalled)
	assert.Equal(USER_ID, res.UserID)
}

func (suite *testSuite) TestMissingToken() {
	_, err := suite.Service.Run(context.Background(), input{})
	suite.assertUnauthenticated(err, e.ReasonMissingCredential)
}

func (suite *testSuite) TestMalformedToken() {
	ctx := WithAuthToken(context.Background(), user.SessionToken("garbage"))
	_, err := suite.Service.Run(ctx, input{})
	suite.assertUnauthenticated(err, e.ReasonInvalidToken)
}

func (suite *testSuite) TestExpiredToken() {
	token := suite.issueToken()
	suite.now = suite.now.Add(time.Hour)

	_, err := suite.Service.Run(WithAuthToken(context.Background(), token), input{})
	suite.assertUnauthenticated(err, e.ReasonInvalidToken)
}

func (suite *testSuite) TestDeactivatedUser() {
	token := suite.issueToken()
	suite.Require().NoError(suite.UserRepository.Deactivate(context.Background(), USER_ID))

	_, err := suite.Service.Run(WithAuthToken(context.Background(), token), input{})
	suite.assertUnauthenticated(err, e.ReasonRevoked)
}

func (suite *testSuite) TestTokenIssuedBeforePasswordChangeIsRejected() {
	token := suite.issueToken()

	suite.now = suite.now.Add(time.Second)
	_, err := suite.UserRepository.SetPassword(
		context.Background(),
		USER_ID,
		user.PasswordHash("new-hash"),
		user.PasswordChangedAt(suite.now),
	)
	suite.Require().NoError(err)

	suite.now = suite.now.Add(time.Second)
	_, err = suite.Service.Run(WithAuthToken(context.Background(), token), input{})
	suite.assertUnauthenticated(err, e.ReasonStaleCredential)
}

func (suite *testSuite) TestTokenIssuedAfterPasswordChangeIsAccepted() {
	_, err := suite.UserRepository.SetPassword(
		context.Background(),
		USER_ID,
		user.PasswordHash("new-hash"),
		user.PasswordChangedAt(suite.now),
	)
	suite.Require().NoError(err)
	token := suite.issueToken()

	_, err = suite.Service.Run(WithAuthToken(context.Background(), token), input{})
	suite.Require().NoError(err)
	suite.Require().True(suite.Inner.WasCalled)
}

func (suite *testSuite) TestRepositoryError() {
	token := suite.issueToken()
	suite.UserRepository.ReturnError = true

	_, err := suite.Service.Run(WithAuthToken(context.Background(), token), input{})

	assert := suite.Require()
	assert.Error(err)
	var errUnauthenticated *e.UnauthenticatedError
	assert.False(errors.As(err, &errUnauthenticated))
	assert.False(suite.Inner.WasCalled)
	assert.Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}
