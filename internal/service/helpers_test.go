package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jokes-api/internal/auth"
	"jokes-api/internal/model"
	"jokes-api/internal/repository"
)

type testEnv struct {
	store  *repository.MemoryStore
	users  *UserService
	auth   *AuthService
	jokes  *JokeService
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret", Algorithm: "HS256", TTL: 15 * time.Minute})
	require.NoError(t, err)

	return &testEnv{
		store:  store,
		users:  NewUserService(store.Users(), hasher, nil),
		auth:   NewAuthService(store.Users(), hasher, tokens),
		jokes:  NewJokeService(store.Jokes(), auth.NewAuthorizer(store.Users()), nil),
		tokens: tokens,
	}
}

func (e *testEnv) mustUser(t *testing.T, email string, name string) model.User {
	t.Helper()

	u, err := e.users.Create(context.Background(), email, "pw-"+name, name)
	require.NoError(t, err)
	return u
}

type fakeFetcher struct {
	joke model.RandomJoke
	err  error
}

func (f fakeFetcher) Fetch(context.Context) (model.RandomJoke, error) {
	return f.joke, f.err
}
