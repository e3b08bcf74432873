// Package authsession orchestrates the credential-exchange and session
// lifecycle protocol: login, token refresh, logout, password-reset requests,
// and registration. Each operation is a stateless request/response combining
// the credential builder, one token-service call, and - where noted - one
// user-directory lookup.
package authsession

import (
	"context"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/credentials"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/blogsmith/blogsmith/users"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Service is the auth session service. It holds no mutable state beyond its
// injected, read-only configuration and is safe for concurrent use.
type Service struct {
	builder       *credentials.Builder
	tokens        TokenService
	users         users.Repo
	notifier      ResetNotifier
	usernameField string
	bcryptCost    int
	nowFunc       func() time.Time
}

// ServiceConfig is the slice of configuration the service needs.
type ServiceConfig interface {
	GetUsernameField() string
	GetBcryptCost() int
}

type ServiceOption func(*Service)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(
	cfg ServiceConfig,
	builder *credentials.Builder,
	tokens TokenService,
	userRepo users.Repo,
	notifier ResetNotifier,
	options ...ServiceOption,
) (*Service, error) {
	if builder == nil {
		return nil, errors.New("[NewService] credential builder is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token service is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewService] reset notifier is required")
	}

	s := &Service{
		builder:       builder,
		tokens:        tokens,
		users:         userRepo,
		notifier:      notifier,
		usernameField: cfg.GetUsernameField(),
		bcryptCost:    cfg.GetBcryptCost(),
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Login exchanges a username and password for a token pair and the matching
// directory record.
//
// The grant is performed before the directory lookup, so the token service
// can issue a token for an identity the directory then fails to resolve.
// That partial-success state is surfaced as ErrUserNotFound rather than
// silently reconciled.
func (s *Service) Login(ctx context.Context, username, password string) (*SessionResult, error) {
	creds, err := s.builder.Build(map[string]string{
		credentials.ArgUsername: username,
		credentials.ArgPassword: password,
	}, oauth2.PasswordGrant)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Build")
	}

	tokenResponse, err := s.tokens.Grant(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Grant")
	}

	user, err := s.users.GetByField(ctx, s.usernameField, username)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] GetByField")
	}

	return &SessionResult{
		TokenResponse: *tokenResponse,
		User:          user,
	}, nil
}

// RefreshToken exchanges a refresh token for a new token pair. No user
// lookup is performed; the result intentionally carries no identity.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.TokenResponse, error) {
	creds, err := s.builder.Build(map[string]string{
		credentials.ArgRefreshToken: refreshToken,
	}, oauth2.RefreshTokenGrant)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshToken] Build")
	}

	tokenResponse, err := s.tokens.Grant(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshToken] Grant")
	}

	return tokenResponse, nil
}

// Logout revokes the calling principal's current access token. It requires
// an authenticated session context and reports TOKEN_REVOKED on success.
func (s *Service) Logout(ctx context.Context) (*RevocationStatus, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.AccessToken == "" {
		return nil, errs.Wrapf(errs.ErrUnauthenticated, "[Service.Logout] no authenticated session")
	}

	if err := s.tokens.Revoke(ctx, principal.AccessToken); err != nil {
		return nil, errors.Wrap(err, "[Service.Logout] Revoke")
	}

	return &RevocationStatus{
		Status:  StatusTokenRevoked,
		Message: "Your session has been terminated",
	}, nil
}

// ForgotPassword asks the reset notifier to dispatch a reset link and maps
// the outcome to a status. It never fails hard: an unknown address - and
// any dispatch failure - reports EMAIL_NOT_SENT so account existence cannot
// be probed through this operation.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*ResetStatus, error) {
	outcome, err := s.notifier.SendResetLink(ctx, email)
	if err != nil || outcome != ResetLinkSent {
		return &ResetStatus{
			Status:  ResetLinkNotSent,
			Message: "Unable to send a password reset link to that address",
		}, nil
	}

	return &ResetStatus{
		Status:  ResetLinkSent,
		Message: "A password reset link has been emailed",
	}, nil
}

// Register validates the input, creates the directory record with a hashed
// password, then runs the login flow with the plaintext password so
// registration auto-authenticates.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*SessionResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	passwordHash, err := users.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] HashPassword")
	}

	now := s.nowFunc()
	user := &users.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}

	// Registration logs in by the email regardless of the configured
	// username field, matching the login-equivalent flow.
	result, err := s.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] auto-login")
	}

	return result, nil
}

func validateRegisterInput(input RegisterInput) error {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return errs.Wrapf(errs.ErrInvalidArgument, "[Service.Register] missing required fields: %s", strings.Join(missing, ", "))
	}

	if input.PasswordConfirmation != "" && input.PasswordConfirmation != input.Password {
		return errs.Wrapf(errs.ErrInvalidArgument, "[Service.Register] password confirmation does not match")
	}

	return nil
}
