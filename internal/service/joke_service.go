package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"jokes-api/internal/auth"
	"jokes-api/internal/event"
	"jokes-api/internal/model"
	"jokes-api/internal/repository"
	"jokes-api/internal/validator"
	"jokes-api/pkg/apierror"
)

const (
	jokeIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	jokeIDLength   = 11
	// 62^11 candidates; hitting this many collisions in a row means the store
	// is misbehaving, not that the ID space is exhausted.
	maxJokeIDAttempts = 16
)

// JokeFetcher retrieves a random joke from an external source.
type JokeFetcher interface {
	Fetch(ctx context.Context) (model.RandomJoke, error)
}

type JokeService struct {
	jokes  repository.JokeRepository
	authz  *auth.Authorizer
	events event.Publisher
	newID  func() (string, error)
}

func NewJokeService(jokes repository.JokeRepository, authz *auth.Authorizer, events event.Publisher) *JokeService {
	if events == nil {
		events = event.Discard{}
	}
	return &JokeService{jokes: jokes, authz: authz, events: events, newID: generateJokeID}
}

func generateJokeID() (string, error) {
	return gonanoid.Generate(jokeIDAlphabet, jokeIDLength)
}

// Create stores a joke. A free requestedID is used as-is; a taken, empty or
// malformed one is replaced by a random 11-character alphanumeric ID. Duplicate-key
// errors on insert are retried with a fresh ID so concurrent creators never
// fail on a collision.
func (s *JokeService) Create(ctx context.Context, text string, author *model.User, requestedID string) (model.Joke, error) {
	if err := validator.JokeText(text); err != nil {
		return model.Joke{}, apierror.Validation(err.Error(), "joke")
	}
	requestedID = strings.TrimSpace(requestedID)
	if err := validator.JokeID(requestedID); err != nil {
		slog.Debug("requested joke id rejected, generating one", "requested_id", requestedID, "error", err)
		requestedID = ""
	}

	joke := model.Joke{
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if author != nil {
		joke.Author = model.LoadedAuthorRef(*author)
	}

	candidate := requestedID
	for attempt := 0; attempt < maxJokeIDAttempts; attempt++ {
		if candidate == "" {
			id, err := s.newID()
			if err != nil {
				return model.Joke{}, fmt.Errorf("generate joke id: %w", err)
			}
			candidate = id
		}

		joke.ID = candidate
		err := s.jokes.Create(ctx, joke)
		if err == nil {
			s.events.Publish(event.New(event.TypeJokeCreated, joke.ID, joke.AuthorID()))
			return joke, nil
		}
		if !errors.Is(err, model.ErrDuplicateKey) {
			return model.Joke{}, err
		}

		if candidate == requestedID {
			slog.Debug("requested joke id taken, generating one", "requested_id", requestedID)
		}
		candidate = ""
	}

	return model.Joke{}, model.ErrJokeIDSpace
}

func (s *JokeService) Get(ctx context.Context, id string) (model.Joke, error) {
	return s.jokes.FindByID(ctx, id)
}

// List returns every joke in no particular order.
func (s *JokeService) List(ctx context.Context) ([]model.Joke, error) {
	return s.jokes.List(ctx)
}

// IsOwner reports whether principal may mutate the joke with the given ID.
// A missing joke is owned by nobody.
func (s *JokeService) IsOwner(ctx context.Context, id string, principal model.User) (bool, error) {
	joke, err := s.jokes.FindByID(ctx, id)
	if errors.Is(err, model.ErrJokeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.authz.IsOwner(ctx, &joke, principal), nil
}

func (s *JokeService) Update(ctx context.Context, principal model.User, id string, text string) error {
	if err := validator.JokeText(text); err != nil {
		return apierror.Validation(err.Error(), "joke")
	}

	if err := s.authorize(ctx, principal, id); err != nil {
		return err
	}

	updated, err := s.jokes.UpdateText(ctx, id, strings.TrimSpace(text))
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrJokeNotFound
	}

	s.events.Publish(event.New(event.TypeJokeUpdated, id, principal.ID))
	return nil
}

func (s *JokeService) Delete(ctx context.Context, principal model.User, id string) error {
	if err := s.authorize(ctx, principal, id); err != nil {
		return err
	}

	deleted, err := s.jokes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrJokeNotFound
	}

	s.events.Publish(event.New(event.TypeJokeDeleted, id, principal.ID))
	return nil
}

// authorize separates "no such joke" from "not yours".
func (s *JokeService) authorize(ctx context.Context, principal model.User, id string) error {
	joke, err := s.jokes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.authz.IsOwner(ctx, &joke, principal) {
		return fmt.Errorf("joke %s: %w", id, model.ErrForbidden)
	}
	return nil
}

// Import fetches a random joke and stores it under the upstream ID when that
// ID is free. author is nil for scheduled imports.
func (s *JokeService) Import(ctx context.Context, fetcher JokeFetcher, author *model.User) (model.Joke, error) {
	random, err := fetcher.Fetch(ctx)
	if err != nil {
		return model.Joke{}, err
	}

	return s.Create(ctx, random.Joke, author, random.ID)
}
