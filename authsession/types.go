package authsession

import (
	"context"

	"github.com/blogsmith/blogsmith/credentials"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/blogsmith/blogsmith/users"
)

// TokenService is the OAuth2 token issuer boundary. Both the in-process
// token.Manager and the remote HTTP client satisfy it.
type TokenService interface {
	Grant(ctx context.Context, creds credentials.Credentials) (*oauth2.TokenResponse, error)
	Revoke(ctx context.Context, accessToken string) error
}

// ResetOutcome is the status reported for a password-reset request.
type ResetOutcome string

const (
	ResetLinkSent    ResetOutcome = "EMAIL_SENT"
	ResetLinkNotSent ResetOutcome = "EMAIL_NOT_SENT"
)

// ResetNotifier dispatches password-reset emails. Implementations must
// report an unknown address as ResetLinkNotSent rather than an error so
// account existence is never leaked.
type ResetNotifier interface {
	SendResetLink(ctx context.Context, email string) (ResetOutcome, error)
}

// SessionResult combines an issued token pair with the resolved user
// identity. User is populated on login and register, never on refreshToken.
type SessionResult struct {
	oauth2.TokenResponse
	User *users.User `json:"user,omitempty"`
}

// StatusTokenRevoked is the status reported by a successful logout.
const StatusTokenRevoked = "TOKEN_REVOKED"

// RevocationStatus is the logout response.
type RevocationStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResetStatus is the forgotPassword response.
type ResetStatus struct {
	Status  ResetOutcome `json:"status"`
	Message string       `json:"message"`
}

// RegisterInput carries the registration fields. PasswordConfirmation is
// accepted and stripped before persistence; when present it must equal
// Password.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}
