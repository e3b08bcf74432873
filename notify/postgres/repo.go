// Package postgres stores pending password-reset tokens in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/notify"
	"github.com/pkg/errors"
)

var _ notify.ResetTokenRepo = (*Repo)(nil)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, rt *notify.ResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_resets (token, email, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		rt.Token, rt.Email, rt.CreatedAt, rt.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "[Repo.Create] insert reset token")
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, token string) (*notify.ResetToken, error) {
	rt := &notify.ResetToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT token, email, created_at, expires_at FROM password_resets WHERE token = $1`,
		token,
	).Scan(&rt.Token, &rt.Email, &rt.CreatedAt, &rt.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrNotFound, "[Repo.Get] reset token")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.Get] scan reset token")
	}
	return rt, nil
}

func (r *Repo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE email = $1`, email)
	if err != nil {
		return errors.Wrap(err, "[Repo.DeleteByEmail] delete reset tokens")
	}
	return nil
}
