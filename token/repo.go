package token

import (
	"context"
	"time"
)

// RefreshToken is an opaque, stored refresh token. One refresh token exists
// per user at a time; issuing a new one deletes the previous.
type RefreshToken struct {
	Token    string
	UserID   string
	ClientID string
	IssuedAt time.Time
}

// RefreshTokenRepo stores refresh tokens. Implementations return
// errors.ErrNotFound for missing tokens.
type RefreshTokenRepo interface {
	Upsert(ctx context.Context, refreshToken *RefreshToken) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	GetByUserID(ctx context.Context, userID string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
