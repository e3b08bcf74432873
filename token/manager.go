package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/credentials"
	"github.com/blogsmith/blogsmith/internal/config"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/blogsmith/blogsmith/users"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Introspection represents the metadata of an access token. The Active field
// indicates the state of the token; if it is false, other fields may not be
// populated.
type Introspection struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub,omitempty"` // user ID
	Email  string `json:"email,omitempty"`
	Iss    string `json:"iss,omitempty"`
	Iat    int64  `json:"iat,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
	Jti    string `json:"jti,omitempty"`
}

// Manager is the in-process token service: it verifies credentials against
// the user directory and issues, refreshes, revokes, and introspects tokens.
// It supports the password and refresh_token grants only.
type Manager struct {
	userRepo           users.Repo
	refreshRepo        RefreshTokenRepo
	signer             Signer
	revokedCache       RevokedTokenCache
	clientID           string
	clientSecret       string
	usernameField      string
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	refreshTokenLength int
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func New(cfg config.OAuthConfig, userRepo users.Repo, refreshRepo RefreshTokenRepo, signer Signer, options ...ManagerOption) (*Manager, error) {
	if userRepo == nil {
		return nil, errors.New("[token.New] user repo is required")
	}
	if refreshRepo == nil {
		return nil, errors.New("[token.New] refresh token repo is required")
	}
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}

	m := &Manager{
		userRepo:           userRepo,
		refreshRepo:        refreshRepo,
		signer:             signer,
		revokedCache:       NewInMemoryRevokedTokenCache(),
		clientID:           cfg.GetClientID(),
		clientSecret:       cfg.GetClientSecret(),
		usernameField:      cfg.GetUsernameField(),
		issuer:             cfg.GetTokenIssuer(),
		accessTokenExpiry:  cfg.GetDefaultAccessTokenExpiry(),
		refreshTokenExpiry: cfg.GetDefaultRefreshTokenExpiry(),
		refreshTokenLength: cfg.GetRefreshTokenLength(),
		nowFunc:            time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Grant handles a token request for either supported grant type.
func (m *Manager) Grant(ctx context.Context, creds credentials.Credentials) (*oauth2.TokenResponse, error) {
	if creds.ClientID != m.clientID || creds.ClientSecret != m.clientSecret {
		return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.Grant] client credentials rejected")
	}

	switch creds.GrantType {
	case oauth2.PasswordGrant:
		return m.passwordGrant(ctx, creds)
	case oauth2.RefreshTokenGrant:
		return m.refreshGrant(ctx, creds)
	default:
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Manager.Grant] unsupported grant type %q", creds.GrantType)
	}
}

func (m *Manager) passwordGrant(ctx context.Context, creds credentials.Credentials) (*oauth2.TokenResponse, error) {
	user, err := m.userRepo.GetByField(ctx, m.usernameField, creds.Username)
	if err != nil {
		// A missing user and a bad password are indistinguishable to the
		// caller.
		if errs.Is(err, errs.ErrUserNotFound) {
			return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.passwordGrant] unknown %s", m.usernameField)
		}
		return nil, errors.Wrap(err, "[Manager.passwordGrant] GetByField")
	}

	if !users.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.passwordGrant] password mismatch")
	}

	return m.tokenResponse(ctx, user, creds.Scope)
}

func (m *Manager) refreshGrant(ctx context.Context, creds credentials.Credentials) (*oauth2.TokenResponse, error) {
	rt, err := m.refreshRepo.Get(ctx, creds.RefreshToken)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.refreshGrant] unknown refresh token")
	}

	if m.nowFunc().Sub(rt.IssuedAt) > m.refreshTokenExpiry {
		_ = m.refreshRepo.Delete(ctx, creds.RefreshToken)
		return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.refreshGrant] refresh token expired")
	}

	user, err := m.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrAuthentication, "[Manager.refreshGrant] user for refresh token not found")
	}

	// Rotation: tokenResponse deletes the user's existing refresh token and
	// issues a new one.
	return m.tokenResponse(ctx, user, creds.Scope)
}

func (m *Manager) tokenResponse(ctx context.Context, user *users.User, scope string) (*oauth2.TokenResponse, error) {
	accessToken, err := m.createAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.tokenResponse] createAccessToken")
	}

	refreshToken, err := m.createRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.tokenResponse] createRefreshToken")
	}

	return &oauth2.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(m.accessTokenExpiry.Seconds()),
		Scope:        scope,
	}, nil
}

func (m *Manager) createAccessToken(user *users.User) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"sub":   user.ID,
		"aud":   m.clientID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.accessTokenExpiry).Unix(),
		"jti":   uuid.New().String(),
	}
	return m.signer.Sign(claims)
}

func (m *Manager) createRefreshToken(ctx context.Context, userID string) (string, error) {
	// Single refresh token per user: drop any existing one first.
	if existing, err := m.refreshRepo.GetByUserID(ctx, userID); err == nil && existing != nil {
		if err := m.refreshRepo.Delete(ctx, existing.Token); err != nil {
			return "", errors.Wrap(err, "[Manager.createRefreshToken] Delete")
		}
	}

	tokenBytes := make([]byte, m.refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "[Manager.createRefreshToken] rand.Read")
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.refreshRepo.Upsert(ctx, &RefreshToken{
		Token:    tokenStr,
		UserID:   userID,
		ClientID: m.clientID,
		IssuedAt: m.nowFunc(),
	}); err != nil {
		return "", errors.Wrap(err, "[Manager.createRefreshToken] Upsert")
	}

	return tokenStr, nil
}

// Revoke invalidates an access token by jti and deletes the owning user's
// refresh token, terminating the session. Revoking an already-revoked token
// succeeds, so a repeated logout is idempotent from the caller's
// perspective.
func (m *Manager) Revoke(ctx context.Context, rawToken string) error {
	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return errs.Wrapf(errs.ErrAuthentication, "[Manager.Revoke] invalid access token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errs.Wrapf(errs.ErrAuthentication, "[Manager.Revoke] malformed claims")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errs.Wrapf(errs.ErrAuthentication, "[Manager.Revoke] token missing jti claim")
	}

	exp, _ := claims["exp"].(float64)
	if err := m.revokedCache.Add(jti, time.Unix(int64(exp), 0)); err != nil {
		return errors.Wrap(err, "[Manager.Revoke] revokedCache.Add")
	}

	if sub, _ := claims["sub"].(string); sub != "" {
		if err := m.refreshRepo.DeleteByUserID(ctx, sub); err != nil && !errs.Is(err, errs.ErrNotFound) {
			return errors.Wrap(err, "[Manager.Revoke] refreshRepo.DeleteByUserID")
		}
	}

	return nil
}

// Introspect validates an access token and returns its metadata. Invalid,
// expired, and revoked tokens come back with Active set to false rather
// than an error.
func (m *Manager) Introspect(rawToken string) (*Introspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &Introspection{Active: false}, nil
	}

	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return &Introspection{Active: false}, nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return &Introspection{Active: false}, errors.New("[Manager.Introspect] error extracting claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	iss, _ := claims["iss"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	jti, _ := claims["jti"].(string)

	active := m.nowFunc().Unix() <= int64(exp)
	if jti != "" && m.revokedCache.IsRevoked(jti) {
		active = false
	}

	return &Introspection{
		Active: active,
		Sub:    sub,
		Email:  email,
		Iss:    iss,
		Iat:    int64(iat),
		Exp:    int64(exp),
		Jti:    jti,
	}, nil
}

// CleanupRevokedTokens removes expired entries from the revocation cache.
func (m *Manager) CleanupRevokedTokens() {
	m.revokedCache.Cleanup()
}
