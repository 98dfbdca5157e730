package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"jokes-api/internal/model"
)

func newUser(email string) model.User {
	return model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Name:         "Test User",
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// runStoreContract exercises the behavior every UserRepository/JokeRepository
// pair must share.
func runStoreContract(t *testing.T, users UserRepository, jokes JokeRepository) {
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	alice := newUser("alice-" + suffix + "@x.com")
	require.NoError(t, users.Create(ctx, alice))

	t.Run("duplicate email is a duplicate key", func(t *testing.T) {
		dup := newUser("ALICE-" + suffix + "@x.com")
		require.ErrorIs(t, users.Create(ctx, dup), model.ErrDuplicateKey)
	})

	t.Run("find by id and email", func(t *testing.T) {
		byID, err := users.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, alice.Email, byID.Email)

		byEmail, err := users.FindByEmail(ctx, alice.Email)
		require.NoError(t, err)
		require.Equal(t, alice.ID, byEmail.ID)

		exists, err := users.ExistsByEmail(ctx, alice.Email)
		require.NoError(t, err)
		require.True(t, exists)

		_, err = users.FindByEmail(ctx, "nobody-"+suffix+"@x.com")
		require.ErrorIs(t, err, model.ErrUserNotFound)

		_, err = users.FindByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, model.ErrUserNotFound)

		_, err = users.FindByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, model.ErrUserNotFound)

		ghost := newUser("ghost-" + suffix + "@x.com")
		ghost.ID = "not-a-uuid"
		require.ErrorIs(t, users.Update(ctx, ghost), model.ErrUserNotFound)
	})

	t.Run("update name and email", func(t *testing.T) {
		bob := newUser("bob-" + suffix + "@x.com")
		require.NoError(t, users.Create(ctx, bob))

		bob.Name = "Robert"
		bob.Email = "robert-" + suffix + "@x.com"
		require.NoError(t, users.Update(ctx, bob))

		got, err := users.FindByEmail(ctx, bob.Email)
		require.NoError(t, err)
		require.Equal(t, "Robert", got.Name)

		bob.Email = alice.Email
		require.ErrorIs(t, users.Update(ctx, bob), model.ErrDuplicateKey)

		ghost := newUser("ghost-" + suffix + "@x.com")
		require.ErrorIs(t, users.Update(ctx, ghost), model.ErrUserNotFound)
	})

	t.Run("joke crud", func(t *testing.T) {
		id := "joke-" + suffix
		joke := model.Joke{ID: id, Text: "why?", CreatedAt: time.Now().UTC(), Author: model.LoadedAuthorRef(alice)}
		require.NoError(t, jokes.Create(ctx, joke))
		require.ErrorIs(t, jokes.Create(ctx, joke), model.ErrDuplicateKey)

		got, err := jokes.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "why?", got.Text)
		require.Equal(t, alice.ID, got.AuthorID())

		all, err := jokes.List(ctx)
		require.NoError(t, err)
		require.Contains(t, jokeIDs(all), id)

		updated, err := jokes.UpdateText(ctx, id, "because")
		require.NoError(t, err)
		require.True(t, updated)

		got, err = jokes.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "because", got.Text)

		updated, err = jokes.UpdateText(ctx, "missing-"+suffix, "x")
		require.NoError(t, err)
		require.False(t, updated)

		deleted, err := jokes.Delete(ctx, id)
		require.NoError(t, err)
		require.True(t, deleted)

		deleted, err = jokes.Delete(ctx, id)
		require.NoError(t, err)
		require.False(t, deleted)

		_, err = jokes.FindByID(ctx, id)
		require.ErrorIs(t, err, model.ErrJokeNotFound)
	})

	t.Run("authorless joke", func(t *testing.T) {
		id := "fetched-" + suffix
		require.NoError(t, jokes.Create(ctx, model.Joke{ID: id, Text: "dad joke", CreatedAt: time.Now().UTC()}))

		got, err := jokes.FindByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, got.Author)
	})

	t.Run("deleting a user clears authorship", func(t *testing.T) {
		carol := newUser("carol-" + suffix + "@x.com")
		require.NoError(t, users.Create(ctx, carol))

		id := "carol-joke-" + suffix
		require.NoError(t, jokes.Create(ctx, model.Joke{ID: id, Text: "orphan soon", CreatedAt: time.Now().UTC(), Author: model.NewAuthorRef(carol.ID)}))

		removed, err := users.DeleteByEmail(ctx, carol.Email)
		require.NoError(t, err)
		require.True(t, removed)

		removed, err = users.DeleteByEmail(ctx, carol.Email)
		require.NoError(t, err)
		require.False(t, removed)

		got, err := jokes.FindByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, got.Author)
	})

	t.Run("unknown author is rejected", func(t *testing.T) {
		err := jokes.Create(ctx, model.Joke{ID: "bad-author-" + suffix, Text: "x", CreatedAt: time.Now().UTC(), Author: model.NewAuthorRef(uuid.NewString())})
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func jokeIDs(jokes []model.Joke) []string {
	ids := make([]string, 0, len(jokes))
	for _, j := range jokes {
		ids = append(ids, j.ID)
	}
	return ids
}
