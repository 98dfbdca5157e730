package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"jokes-api/internal/model"
)

// UserRepository stores user documents keyed by ID with a unique email.
// Create and Update return model.ErrDuplicateKey when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u model.User) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

// JokeRepository stores joke documents keyed by their public ID.
// Create returns model.ErrDuplicateKey when the ID is taken.
type JokeRepository interface {
	Create(ctx context.Context, j model.Joke) error
	FindByID(ctx context.Context, id string) (model.Joke, error)
	List(ctx context.Context) ([]model.Joke, error)
	UpdateText(ctx context.Context, id string, text string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isInvalidUUID reports whether Postgres refused an ID parameter that is not
// a UUID. Such an ID can never match a row.
func isInvalidUUID(err error) bool {
	return pgErrorCode(err) == invalidTextRepresentation
}

// storeError classifies a driver error as a duplicate key or a generic store
// failure, keeping the driver error in the chain.
func storeError(op string, err error) error {
	switch pgErrorCode(err) {
	case uniqueViolation:
		return fmt.Errorf("%s: %w", op, model.ErrDuplicateKey)
	case foreignKeyViolation:
		return fmt.Errorf("%s: %w", op, model.ErrUserNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStore, err)
}
