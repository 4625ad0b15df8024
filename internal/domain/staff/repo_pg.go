package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type staffRepoPG struct{ pool *pgxpool.Pool }

func NewStaffRepoPG(pool *pgxpool.Pool) Repository {
	return &staffRepoPG{pool: pool}
}

func (r *staffRepoPG) Create(ctx context.Context, a *Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff (username, password_hash, created_at)
		VALUES ($1, $2, $3)`,
		a.Username, a.PasswordHash, a.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateUsername
	}
	return err
}

func (r *staffRepoPG) GetByUsername(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `
		SELECT username, password_hash, created_at FROM staff WHERE username = $1`,
		username).Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
