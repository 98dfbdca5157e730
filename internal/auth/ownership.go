package auth

import (
	"context"
	"log/slog"

	"jokes-api/internal/model"
)

// Authorizer decides whether a principal may mutate a joke.
type Authorizer struct {
	users model.UserFinder
}

func NewAuthorizer(users model.UserFinder) *Authorizer {
	return &Authorizer{users: users}
}

// IsOwner resolves the joke's author and compares user IDs. Missing jokes,
// authorless jokes and unresolvable authors are owned by nobody.
func (a *Authorizer) IsOwner(ctx context.Context, joke *model.Joke, principal model.User) bool {
	if joke == nil || joke.Author == nil || principal.ID == "" {
		return false
	}

	author, err := joke.Author.Resolve(ctx, a.users)
	if err != nil {
		slog.Debug("joke author did not resolve", "joke_id", joke.ID, "author_id", joke.Author.ID, "error", err)
		return false
	}

	return author.ID == principal.ID
}
