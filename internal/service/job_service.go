package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"jokes-api/internal/model"
)

// JobRun records the outcome of one scheduled fetch.
type JobRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	JokeID     string
	Status     string
	Err        error
}

const (
	JobStatusCompleted   = "completed"
	JobStatusUnavailable = "upstream_unavailable"
	JobStatusUpstream    = "upstream_failed"
	JobStatusStore       = "store_failed"
	JobStatusFailed      = "failed"
)

// FetchJokeJob imports one authorless joke from the external API per run.
type FetchJokeJob struct {
	jokes   *JokeService
	fetcher JokeFetcher
	timeout time.Duration

	mu      sync.RWMutex
	lastRun *JobRun
}

func NewFetchJokeJob(jokes *JokeService, fetcher JokeFetcher, timeout time.Duration) *FetchJokeJob {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &FetchJokeJob{jokes: jokes, fetcher: fetcher, timeout: timeout}
}

// Run performs a single fetch bounded by the job timeout. Failures are logged
// by kind and returned; they never panic or block past the timeout.
func (j *FetchJokeJob) Run(ctx context.Context) JobRun {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	run := JobRun{StartedAt: time.Now().UTC()}
	joke, err := j.jokes.Import(ctx, j.fetcher, nil)
	run.FinishedAt = time.Now().UTC()
	run.Err = err

	switch {
	case err == nil:
		run.Status = JobStatusCompleted
		run.JokeID = joke.ID
		slog.Info("fetched joke stored", "joke_id", joke.ID, "duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds())
	case errors.Is(err, model.ErrUpstreamUnavailable):
		run.Status = JobStatusUnavailable
		slog.Warn("joke api unavailable", "error", err)
	case errors.Is(err, model.ErrUpstreamFailure):
		run.Status = JobStatusUpstream
		slog.Error("joke api request failed", "error", err)
	case errors.Is(err, model.ErrStore), errors.Is(err, model.ErrJokeIDSpace):
		run.Status = JobStatusStore
		slog.Error("failed to store fetched joke", "error", err)
	default:
		run.Status = JobStatusFailed
		slog.Error("joke fetch job failed", "error", err)
	}

	j.mu.Lock()
	j.lastRun = &run
	j.mu.Unlock()

	return run
}

// LastRun returns the most recent run, if any.
func (j *FetchJokeJob) LastRun() (JobRun, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.lastRun == nil {
		return JobRun{}, false
	}
	return *j.lastRun, true
}
