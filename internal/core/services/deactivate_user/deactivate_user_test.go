package deactivateuser

import (
	"context"
	"errors"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	"natours/internal/core/domain/user"
	"natours/internal/core/services/auth"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeactivatedUserTokenIsRevoked(t *testing.T) {
	// Setup ---
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	repo := user.NewFakeUserRepository()
	repo.Users = []user.User{{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: "hash",
		Role:         user.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
	}}
	tokens := user.NewFakeSessionTokens(time.Hour, func() time.Time { return now })
	log := logging.NewFakeLogger()
	service := auth.WithAuthentication[Input, Result](log, tokens, repo, New(log, repo))
	token, err := tokens.IssueToken("user-1")
	require.NoError(t, err)
	ctx := auth.WithAuthToken(context.Background(), token)

	// Exercise ---
	_, err = service.Run(ctx, Input{})
	require.NoError(t, err)
	_, err = service.Run(ctx, Input{})

	// Verify ---
	var errUnauthenticated *e.UnauthenticatedError
	require.True(t, errors.As(err, &errUnauthenticated))
	require.Equal(t, e.ReasonRevoked, errUnauthenticated.Reason)
	stored, ok := repo.Get("user-1")
	require.True(t, ok)
	require.False(t, stored.IsActive)
}

func TestRepositoryError(t *testing.T) {
	repo := user.NewFakeUserRepository()
	repo.ReturnError = true
	log := logging.NewFakeLogger()

	_, err := New(log, repo).Run(context.Background(), Input{UserID: "user-1"})

	require.Error(t, err)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}
