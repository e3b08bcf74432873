// Package postgres stores refresh tokens in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/token"
	"github.com/pkg/errors"
)

var _ token.RefreshTokenRepo = (*Repo)(nil)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Upsert(ctx context.Context, rt *token.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_id, client_id, issued_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token) DO UPDATE SET user_id = $2, client_id = $3, issued_at = $4`,
		rt.Token, rt.UserID, rt.ClientID, rt.IssuedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[Repo.Upsert] upsert refresh token")
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, tokenStr string) (*token.RefreshToken, error) {
	rt := &token.RefreshToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, client_id, issued_at FROM refresh_tokens WHERE token = $1`,
		tokenStr,
	).Scan(&rt.Token, &rt.UserID, &rt.ClientID, &rt.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrNotFound, "[Repo.Get] refresh token")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.Get] scan refresh token")
	}
	return rt, nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID string) (*token.RefreshToken, error) {
	rt := &token.RefreshToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, client_id, issued_at FROM refresh_tokens WHERE user_id = $1`,
		userID,
	).Scan(&rt.Token, &rt.UserID, &rt.ClientID, &rt.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrNotFound, "[Repo.GetByUserID] user %q", userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.GetByUserID] scan refresh token")
	}
	return rt, nil
}

func (r *Repo) Delete(ctx context.Context, tokenStr string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenStr)
	if err != nil {
		return errors.Wrap(err, "[Repo.Delete] delete refresh token")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[Repo.Delete] rows affected")
	}
	if affected == 0 {
		return errs.Wrapf(errs.ErrNotFound, "[Repo.Delete] refresh token")
	}
	return nil
}

func (r *Repo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return errors.Wrap(err, "[Repo.DeleteByUserID] delete refresh tokens")
	}
	return nil
}
