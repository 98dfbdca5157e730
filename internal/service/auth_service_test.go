package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jokes-api/internal/model"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "alice@x.com", "Alice")

	token, err := env.auth.Login(ctx, "alice@x.com", "pw-Alice")
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)
	require.EqualValues(t, 15*60, token.ExpiresIn)

	claims, ok := env.tokens.Verify(token.AccessToken)
	require.True(t, ok)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)

	_, err = env.auth.Login(ctx, "alice@x.com", "wrong")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "nobody@x.com", "pw")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestResolvePrincipal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustUser(t, "alice@x.com", "Alice")

	token, err := env.auth.IssueFor(alice)
	require.NoError(t, err)

	principal, err := env.auth.ResolvePrincipal(ctx, token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, alice.ID, principal.ID)

	_, err = env.auth.ResolvePrincipal(ctx, "garbage")
	require.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = env.users.Delete(ctx, alice.Email)
	require.NoError(t, err)
	_, err = env.auth.ResolvePrincipal(ctx, token.AccessToken)
	require.ErrorIs(t, err, model.ErrPrincipalNotFound)
	require.NotErrorIs(t, err, model.ErrInvalidToken)
}

func TestInactiveUserIsRefused(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustUser(t, "alice@x.com", "Alice")

	token, err := env.auth.IssueFor(alice)
	require.NoError(t, err)

	alice.IsActive = false
	require.NoError(t, env.store.Users().Update(ctx, alice))

	_, err = env.auth.ResolvePrincipal(ctx, token.AccessToken)
	require.ErrorIs(t, err, model.ErrForbidden)
	require.NotErrorIs(t, err, model.ErrPrincipalNotFound)

	_, err = env.auth.Login(ctx, "alice@x.com", "pw-Alice")
	require.ErrorIs(t, err, model.ErrForbidden)
}

func TestResolvePrincipalRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.mustUser(t, "alice@x.com", "Alice")

	issuedAt := time.Now()
	env.tokens.SetClock(func() time.Time { return issuedAt })
	token, err := env.auth.IssueFor(alice)
	require.NoError(t, err)

	env.tokens.SetClock(func() time.Time { return issuedAt.Add(time.Hour) })
	_, err = env.auth.ResolvePrincipal(context.Background(), token.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}
