package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jokes-api/internal/model"
)

type PostgresJokeRepository struct {
	pool *pgxpool.Pool
}

func NewJokeRepository(pool *pgxpool.Pool) *PostgresJokeRepository {
	return &PostgresJokeRepository{pool: pool}
}

func scanJoke(row pgx.Row) (model.Joke, error) {
	var (
		j        model.Joke
		authorID *string
	)
	if err := row.Scan(&j.ID, &j.Text, &j.CreatedAt, &authorID); err != nil {
		return model.Joke{}, err
	}
	if authorID != nil {
		j.Author = model.NewAuthorRef(*authorID)
	}
	return j, nil
}

func (r *PostgresJokeRepository) Create(ctx context.Context, j model.Joke) error {
	var authorID *string
	if id := j.AuthorID(); id != "" {
		authorID = &id
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO jokes (id, joke, created_at, author_id) VALUES ($1, $2, $3, $4::uuid)`,
		j.ID, j.Text, j.CreatedAt, authorID)
	if err != nil {
		return storeError("create joke", err)
	}
	return nil
}

func (r *PostgresJokeRepository) FindByID(ctx context.Context, id string) (model.Joke, error) {
	j, err := scanJoke(r.pool.QueryRow(ctx,
		`SELECT id, joke, created_at, author_id::text FROM jokes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Joke{}, model.ErrJokeNotFound
	}
	if err != nil {
		return model.Joke{}, storeError("find joke", err)
	}
	return j, nil
}

func (r *PostgresJokeRepository) List(ctx context.Context) ([]model.Joke, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, joke, created_at, author_id::text FROM jokes`)
	if err != nil {
		return nil, storeError("list jokes", err)
	}
	defer rows.Close()

	jokes := make([]model.Joke, 0)
	for rows.Next() {
		j, err := scanJoke(rows)
		if err != nil {
			return nil, storeError("scan joke", err)
		}
		jokes = append(jokes, j)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list jokes", err)
	}
	return jokes, nil
}

func (r *PostgresJokeRepository) UpdateText(ctx context.Context, id string, text string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE jokes SET joke = $2 WHERE id = $1`, id, text)
	if err != nil {
		return false, storeError("update joke", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresJokeRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jokes WHERE id = $1`, id)
	if err != nil {
		return false, storeError("delete joke", err)
	}
	return tag.RowsAffected() > 0, nil
}
