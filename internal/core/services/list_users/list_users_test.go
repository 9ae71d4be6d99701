package listusers

import (
	"context"
	"errors"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services"
	"natours/internal/core/services/auth"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	Tokens         *user.FakeSessionTokens
	Service        services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.UserRepository.Users = []user.User{
		{ID: "admin", Email: "admin@x.com", PasswordHash: "hash", Role: user.RoleAdmin, IsActive: true, CreatedAt: NOW.Add(time.Minute)},
		{ID: "user", Email: "user@x.com", PasswordHash: "hash", Role: user.RoleUser, IsActive: true, CreatedAt: NOW},
		{ID: "gone", Email: "gone@x.com", PasswordHash: "hash", Role: user.RoleUser, IsActive: false, CreatedAt: NOW},
	}
	suite.Tokens = user.NewFakeSessionTokens(time.Hour, func() time.Time { return NOW })
	suite.Service = auth.WithAuthentication[Input, Result](
		suite.Logger,
		suite.Tokens,
		suite.UserRepository,
		auth.WithRoles[Input, Result](
			[]user.Role{user.RoleAdmin},
			New(suite.Logger, suite.UserRepository),
		),
	)
}

func TestListUsersService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) contextFor(id user.ID) context.Context {
	token, err := suite.Tokens.IssueToken(id)
	suite.Require().NoError(err)
	return auth.WithAuthToken(context.Background(), token)
}

func (suite *testSuite) TestAdminListsActiveUsers() {
	result, err := suite.Service.Run(suite.contextFor("admin"), Input{})

	assert := suite.Require()
	assert.NoError(err)
	assert.Len(result.Users, 2)
	assert.Equal(user.ID("user"), result.Users[0].ID)
	assert.Equal(user.ID("admin"), result.Users[1].ID)
}

func (suite *testSuite) TestUserIsForbidden() {
	_, err := suite.Service.Run(suite.contextFor("user"), Input{})

	var errForbidden *e.ForbiddenError
	suite.Require().True(errors.As(err, &errForbidden))
}
