package repository

import (
	"context"
	"strings"
	"sync"

	"jokes-api/internal/model"
)

// MemoryStore keeps users and jokes in process memory with the same
// uniqueness and author-nullification rules as the Postgres schema.
type MemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]model.User
	userIDByMail map[string]string
	jokes        map[string]memoryJoke
}

type memoryJoke struct {
	joke     model.Joke
	authorID string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByID:    map[string]model.User{},
		userIDByMail: map[string]string{},
		jokes:        map[string]memoryJoke{},
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{store: s}
}

func (s *MemoryStore) Jokes() *MemoryJokeRepository {
	return &MemoryJokeRepository{store: s}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByID[u.ID]; exists {
		return model.ErrDuplicateKey
	}
	if _, exists := s.userIDByMail[emailKey(u.Email)]; exists {
		return model.ErrDuplicateKey
	}

	s.usersByID[u.ID] = u
	s.userIDByMail[emailKey(u.Email)] = u.ID
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userIDByMail[emailKey(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return s.usersByID[id], nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.userIDByMail[emailKey(email)]
	return ok, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u model.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.usersByID[u.ID]
	if !ok {
		return model.ErrUserNotFound
	}

	oldKey, newKey := emailKey(current.Email), emailKey(u.Email)
	if oldKey != newKey {
		if _, taken := s.userIDByMail[newKey]; taken {
			return model.ErrDuplicateKey
		}
		delete(s.userIDByMail, oldKey)
		s.userIDByMail[newKey] = u.ID
	}

	current.Email = u.Email
	current.Name = u.Name
	current.IsActive = u.IsActive
	s.usersByID[u.ID] = current
	return nil
}

func (r *MemoryUserRepository) DeleteByEmail(_ context.Context, email string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(email)
	id, ok := s.userIDByMail[key]
	if !ok {
		return false, nil
	}

	delete(s.userIDByMail, key)
	delete(s.usersByID, id)

	for jokeID, stored := range s.jokes {
		if stored.authorID == id {
			stored.authorID = ""
			s.jokes[jokeID] = stored
		}
	}
	return true, nil
}

type MemoryJokeRepository struct {
	store *MemoryStore
}

func (r *MemoryJokeRepository) Create(_ context.Context, j model.Joke) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jokes[j.ID]; exists {
		return model.ErrDuplicateKey
	}

	authorID := j.AuthorID()
	if authorID != "" {
		if _, ok := s.usersByID[authorID]; !ok {
			return model.ErrUserNotFound
		}
	}

	stored := j
	stored.Author = nil
	s.jokes[j.ID] = memoryJoke{joke: stored, authorID: authorID}
	return nil
}

func (r *MemoryJokeRepository) FindByID(_ context.Context, id string) (model.Joke, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.jokes[id]
	if !ok {
		return model.Joke{}, model.ErrJokeNotFound
	}
	return stored.materialize(), nil
}

func (r *MemoryJokeRepository) List(_ context.Context) ([]model.Joke, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	jokes := make([]model.Joke, 0, len(s.jokes))
	for _, stored := range s.jokes {
		jokes = append(jokes, stored.materialize())
	}
	return jokes, nil
}

func (r *MemoryJokeRepository) UpdateText(_ context.Context, id string, text string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jokes[id]
	if !ok {
		return false, nil
	}
	stored.joke.Text = text
	s.jokes[id] = stored
	return true, nil
}

func (r *MemoryJokeRepository) Delete(_ context.Context, id string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jokes[id]; !ok {
		return false, nil
	}
	delete(s.jokes, id)
	return true, nil
}

// materialize returns a copy whose author is an unresolved reference, as a
// document read from a real store would be.
func (m memoryJoke) materialize() model.Joke {
	j := m.joke
	if m.authorID != "" {
		j.Author = model.NewAuthorRef(m.authorID)
	}
	return j
}
