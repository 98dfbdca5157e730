package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jokes-api/internal/auth"
	"jokes-api/internal/model"
	"jokes-api/internal/repository"
	"jokes-api/pkg/apierror"
)

type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenService
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AccessToken, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.AccessToken{}, apierror.Validation("email and password are required", "email|password")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return model.AccessToken{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.AccessToken{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.AccessToken{}, fmt.Errorf("login %s: account disabled: %w", user.Email, model.ErrForbidden)
	}

	return s.IssueFor(user)
}

// IssueFor mints an access token whose subject is the user's current email.
func (s *AuthService) IssueFor(user model.User) (model.AccessToken, error) {
	token, err := s.tokens.Issue(user.Email, user.Name)
	if err != nil {
		return model.AccessToken{}, err
	}

	return model.AccessToken{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// ResolvePrincipal turns a bearer token into the user it names. An invalid
// token and a token for a user that no longer exists are different errors.
// Inactive users are refused the same way Login refuses them.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (model.User, error) {
	claims, ok := s.tokens.Verify(token)
	if !ok {
		return model.User{}, model.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrPrincipalNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if !user.IsActive {
		return model.User{}, fmt.Errorf("resolve %s: account disabled: %w", user.Email, model.ErrForbidden)
	}

	return user, nil
}
