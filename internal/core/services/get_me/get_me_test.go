package getme

import (
	"context"
	c "natours/internal/core/domain/common"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services/auth"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	repo := user.NewFakeUserRepository()
	repo.Users = []user.User{{
		ID:           "user-1",
		Name:         "A",
		Email:        c.Email("a@x.com"),
		PasswordHash: "hash",
		Role:         user.RoleGuide,
		IsActive:     true,
		CreatedAt:    now,
	}}
	tokens := user.NewFakeSessionTokens(time.Hour, func() time.Time { return now })
	log := logging.NewFakeLogger()
	service := auth.WithAuthentication[Input, Result](log, tokens, repo, New(log))

	token, err := tokens.IssueToken("user-1")
	require.NoError(t, err)
	result, err := service.Run(auth.WithAuthToken(context.Background(), token), Input{})

	require.NoError(t, err)
	require.Equal(t, repo.Users[0], result.User)
}
