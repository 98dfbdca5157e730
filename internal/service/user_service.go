package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jokes-api/internal/auth"
	"jokes-api/internal/event"
	"jokes-api/internal/model"
	"jokes-api/internal/repository"
	"jokes-api/internal/validator"
	"jokes-api/pkg/apierror"
)

type UserService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	events event.Publisher
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, events event.Publisher) *UserService {
	if events == nil {
		events = event.Discard{}
	}
	return &UserService{users: users, hasher: hasher, events: events}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a user. The email uniqueness check is explicit; the
// store's unique index still guards the race between check and insert.
func (s *UserService) Create(ctx context.Context, email string, password string, name string) (model.User, error) {
	if err := validator.Email(email); err != nil {
		return model.User{}, apierror.Validation(err.Error(), "email")
	}
	if err := validator.Password(password); err != nil {
		return model.User{}, apierror.Validation(err.Error(), "password")
	}
	if err := validator.Name(name); err != nil {
		return model.User{}, apierror.Validation(err.Error(), "name")
	}

	email = normalizeEmail(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, email)
		}
		return model.User{}, err
	}

	s.events.Publish(event.New(event.TypeUserRegistered, user.Email, user.ID))
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

// Edit renames the user identified by oldEmail and moves them to newEmail.
func (s *UserService) Edit(ctx context.Context, oldEmail string, newName string, newEmail string) (model.User, error) {
	if err := validator.Email(newEmail); err != nil {
		return model.User{}, apierror.Validation(err.Error(), "email")
	}
	if err := validator.Name(newName); err != nil {
		return model.User{}, apierror.Validation(err.Error(), "name")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(oldEmail))
	if err != nil {
		return model.User{}, err
	}

	user.Name = strings.TrimSpace(newName)
	user.Email = normalizeEmail(newEmail)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, user.Email)
		}
		return model.User{}, err
	}

	s.events.Publish(event.New(event.TypeUserUpdated, user.Email, user.ID))
	return user, nil
}

// Delete removes the user with the given email and reports whether a record
// existed. Their jokes stay, with no author.
func (s *UserService) Delete(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)

	deleted, err := s.users.DeleteByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if deleted {
		s.events.Publish(event.New(event.TypeUserDeleted, email, ""))
	}
	return deleted, nil
}

// DeleteAccount lets a principal delete only their own account.
func (s *UserService) DeleteAccount(ctx context.Context, principal model.User, email string) error {
	if strings.TrimSpace(email) == "" {
		return apierror.Validation("email is required", "email")
	}
	if normalizeEmail(email) != normalizeEmail(principal.Email) {
		return fmt.Errorf("delete user %s: %w", normalizeEmail(email), model.ErrForbidden)
	}

	deleted, err := s.Delete(ctx, email)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrUserNotFound
	}
	return nil
}
