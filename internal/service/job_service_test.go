package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jokes-api/internal/model"
)

// blockingFetcher waits for the context to end.
type blockingFetcher struct{}

func (blockingFetcher) Fetch(ctx context.Context) (model.RandomJoke, error) {
	<-ctx.Done()
	return model.RandomJoke{}, fmt.Errorf("fetch: %w: %w", model.ErrUpstreamUnavailable, ctx.Err())
}

func TestFetchJokeJobStoresAuthorlessJoke(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	job := NewFetchJokeJob(env.jokes, fakeFetcher{joke: model.RandomJoke{ID: "abc123XYZ00", Joke: "Dad joke."}}, time.Second)

	_, ok := job.LastRun()
	require.False(t, ok)

	run := job.Run(context.Background())
	require.NoError(t, run.Err)
	require.Equal(t, JobStatusCompleted, run.Status)
	require.Equal(t, "abc123XYZ00", run.JokeID)

	stored, err := env.jokes.Get(context.Background(), "abc123XYZ00")
	require.NoError(t, err)
	require.Equal(t, "Dad joke.", stored.Text)
	require.Nil(t, stored.Author)

	last, ok := job.LastRun()
	require.True(t, ok)
	require.Equal(t, run.JokeID, last.JokeID)
}

func TestFetchJokeJobClassifiesFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		fetcher JokeFetcher
		status  string
	}{
		{"unavailable", fakeFetcher{err: model.ErrUpstreamUnavailable}, JobStatusUnavailable},
		{"bad upstream", fakeFetcher{err: fmt.Errorf("status 500: %w", model.ErrUpstreamFailure)}, JobStatusUpstream},
		{"empty joke", fakeFetcher{joke: model.RandomJoke{ID: "x"}}, JobStatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			job := NewFetchJokeJob(env.jokes, tc.fetcher, time.Second)

			run := job.Run(context.Background())
			require.Error(t, run.Err)
			require.Equal(t, tc.status, run.Status)

			all, err := env.jokes.List(context.Background())
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestFetchJokeJobRespectsTimeout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	job := NewFetchJokeJob(env.jokes, blockingFetcher{}, 50*time.Millisecond)

	start := time.Now()
	run := job.Run(context.Background())
	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, JobStatusUnavailable, run.Status)
	require.ErrorIs(t, run.Err, context.DeadlineExceeded)
}
