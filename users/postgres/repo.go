// Package postgres implements the user directory on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/users"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

var _ users.Repo = (*Repo)(nil)

// Repo is the PostgreSQL-backed user directory.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// lookupColumns whitelists directory lookup fields; the field name is
// interpolated into SQL and must never come from request input directly.
var lookupColumns = map[string]string{
	users.FieldEmail:    "email",
	users.FieldUsername: "username",
}

func (r *Repo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	username := sql.NullString{String: user.Username, Valid: user.Username != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, username, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, username, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errs.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.Wrapf(errs.ErrDuplicateUser, "[Repo.Create] email %q", user.Email)
		}
		return errors.Wrap(err, "[Repo.Create] insert user")
	}
	return nil
}

func (r *Repo) GetByField(ctx context.Context, field, value string) (*users.User, error) {
	column, ok := lookupColumns[field]
	if !ok {
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Repo.GetByField] field %q", field)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, COALESCE(username, ''), password, created_at, updated_at
		 FROM users WHERE `+column+` = $1`,
		value,
	)
	return scanUser(row, field, value)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, COALESCE(username, ''), password, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row, "id", id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[Repo.Delete] delete user")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[Repo.Delete] rows affected")
	}
	if affected == 0 {
		return errs.Wrapf(errs.ErrUserNotFound, "[Repo.Delete] id %q", id)
	}
	return nil
}

func scanUser(row *sql.Row, field, value string) (*users.User, error) {
	user := &users.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrUserNotFound, "[Repo] %s=%q", field, value)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Repo] scan user")
	}
	return user, nil
}
