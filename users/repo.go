package users

import "context"

// Repo is the user directory boundary. Implementations return
// errors.ErrUserNotFound for missing records and errors.ErrDuplicateUser for
// unique-constraint collisions so that failure paths are part of the
// signature rather than hidden control transfer.
type Repo interface {
	// Create stores a new user. Fails with ErrDuplicateUser when the email
	// (or username, when set) already exists.
	Create(ctx context.Context, user *User) error

	// GetByField looks a user up by one of the supported lookup fields.
	GetByField(ctx context.Context, field, value string) (*User, error)

	// GetByID looks a user up by primary key.
	GetByID(ctx context.Context, id string) (*User, error)

	// Delete removes a user by primary key.
	Delete(ctx context.Context, id string) error
}
