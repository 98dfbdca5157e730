// Package jokeapi talks to the external random-joke service.
package jokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jokes-api/internal/model"
)

const DefaultURL = "https://icanhazdadjoke.com/"

type Client struct {
	url        string
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client whose every request is bounded by timeout, on
// top of any deadline carried by the caller's context.
func NewClient(url string, timeout time.Duration) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "jokes-api",
	}
}

// Fetch returns one random joke. A 503 or a transport failure yields
// model.ErrUpstreamUnavailable; any other non-200 status or an unusable body
// yields model.ErrUpstreamFailure.
func (c *Client) Fetch(ctx context.Context) (model.RandomJoke, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return model.RandomJoke{}, fmt.Errorf("%w: build request: %v", model.ErrUpstreamFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.RandomJoke{}, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.RandomJoke{}, fmt.Errorf("%w: status %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.RandomJoke{}, fmt.Errorf("%w: status %d", model.ErrUpstreamFailure, resp.StatusCode)
	}

	var joke model.RandomJoke
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&joke); err != nil {
		return model.RandomJoke{}, fmt.Errorf("%w: decode body: %v", model.ErrUpstreamFailure, err)
	}

	joke.ID = strings.TrimSpace(joke.ID)
	joke.Joke = strings.TrimSpace(joke.Joke)
	if joke.Joke == "" {
		return model.RandomJoke{}, fmt.Errorf("%w: empty joke in response", model.ErrUpstreamFailure)
	}

	return joke, nil
}
