package model

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Joke struct {
	ID        string     `json:"id"`
	Text      string     `json:"joke"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *AuthorRef `json:"author"`
}

// UserFinder loads users by their stable identifier.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (User, error)
}

// AuthorRef points at the user who wrote a joke. The user record may already
// be loaded (e.g. right after creation) or only known by ID (after a read
// from the store); Resolve hides the difference.
type AuthorRef struct {
	ID   string
	user *User
}

func NewAuthorRef(id string) *AuthorRef {
	return &AuthorRef{ID: id}
}

func LoadedAuthorRef(u User) *AuthorRef {
	loaded := u
	return &AuthorRef{ID: u.ID, user: &loaded}
}

func (r *AuthorRef) Resolve(ctx context.Context, users UserFinder) (User, error) {
	if r == nil {
		return User{}, ErrUserNotFound
	}
	if r.user != nil {
		return *r.user, nil
	}

	u, err := users.FindByID(ctx, r.ID)
	if err != nil {
		return User{}, fmt.Errorf("resolve author %s: %w", r.ID, err)
	}
	r.user = &u
	return u, nil
}

// MarshalJSON renders the reference as the author's ID, or null.
func (r *AuthorRef) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// AuthorID returns the referenced user ID, or "" for authorless jokes.
func (j Joke) AuthorID() string {
	if j.Author == nil {
		return ""
	}
	return j.Author.ID
}

type RandomJoke struct {
	ID   string `json:"id"`
	Joke string `json:"joke"`
}
