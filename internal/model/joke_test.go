package model

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	users map[string]User
	calls int
}

func (f *countingFinder) FindByID(_ context.Context, id string) (User, error) {
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func TestAuthorRefResolve(t *testing.T) {
	t.Parallel()

	alice := User{ID: "u-1", Email: "alice@x.com", Name: "Alice"}

	t.Run("loaded reference does not hit the finder", func(t *testing.T) {
		finder := &countingFinder{}
		ref := LoadedAuthorRef(alice)

		got, err := ref.Resolve(context.Background(), finder)
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.Zero(t, finder.calls)
	})

	t.Run("id-only reference is fetched once", func(t *testing.T) {
		finder := &countingFinder{users: map[string]User{alice.ID: alice}}
		ref := NewAuthorRef(alice.ID)

		for i := 0; i < 3; i++ {
			got, err := ref.Resolve(context.Background(), finder)
			require.NoError(t, err)
			require.Equal(t, "alice@x.com", got.Email)
		}
		require.Equal(t, 1, finder.calls)
	})

	t.Run("dangling reference reports not found", func(t *testing.T) {
		finder := &countingFinder{users: map[string]User{}}
		_, err := NewAuthorRef("gone").Resolve(context.Background(), finder)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("nil reference", func(t *testing.T) {
		var ref *AuthorRef
		_, err := ref.Resolve(context.Background(), &countingFinder{})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestJokeJSONRendersAuthorID(t *testing.T) {
	t.Parallel()

	withAuthor, err := json.Marshal(Joke{ID: "abc", Text: "why?", Author: NewAuthorRef("u-1")})
	require.NoError(t, err)
	require.Contains(t, string(withAuthor), `"author":"u-1"`)

	authorless, err := json.Marshal(Joke{ID: "def", Text: "because"})
	require.NoError(t, err)
	require.Contains(t, string(authorless), `"author":null`)
}

func TestUserPublicDropsHash(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(User{ID: "u-1", Email: "a@b.com", PasswordHash: "$2a$secret"})
	require.NoError(t, err)
	require.NotContains(t, string(raw), "$2a$secret")
	require.Equal(t, "a@b.com", User{Email: "a@b.com"}.Public().Email)
}
