package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokes-api/internal/model"
)

func TestMemoryStoreContract(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	runStoreContract(t, store.Users(), store.Jokes())
}

func TestMemoryJokesAreReturnedWithUnresolvedAuthors(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	u := newUser("dave@x.com")
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, store.Jokes().Create(ctx, model.Joke{ID: "j", Text: "t", CreatedAt: time.Now(), Author: model.LoadedAuthorRef(u)}))

	require.NoError(t, store.Users().Update(ctx, model.User{ID: u.ID, Email: u.Email, Name: "Renamed", IsActive: true}))

	got, err := store.Jokes().FindByID(ctx, "j")
	require.NoError(t, err)

	author, err := got.Author.Resolve(ctx, store.Users())
	require.NoError(t, err)
	require.Equal(t, "Renamed", author.Name)
}

func TestMemoryJokeCreateIsRaceSafe(t *testing.T) {
	t.Parallel()

	jokes := NewMemoryStore().Jokes()
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := jokes.Create(ctx, model.Joke{ID: "contested", Text: fmt.Sprintf("attempt %d", i), CreatedAt: time.Now()})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, model.ErrDuplicateKey)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
}
