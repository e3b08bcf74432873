// Package credentials assembles OAuth2 grant request payloads from mutation
// arguments and process configuration.
package credentials

import (
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
)

// Argument keys accepted by Build.
const (
	ArgUsername     = "username"
	ArgPassword     = "password"
	ArgRefreshToken = "refreshToken"
	ArgScope        = "scope"
)

// Credentials is the transient payload for a single token-grant request.
// It is constructed per request and discarded after use; it is never
// persisted or logged.
type Credentials struct {
	GrantType    oauth2.GrantType
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	Scope        string
}

// ClientConfig is the slice of configuration the builder needs; satisfied by
// config.OAuthConfig.
type ClientConfig interface {
	GetClientID() string
	GetClientSecret() string
}

// Builder constructs Credentials carrying the configured client id and
// secret. The configuration is captured once at startup; Build is pure and
// deterministic given its inputs.
type Builder struct {
	clientID     string
	clientSecret string
}

func NewBuilder(cfg ClientConfig) *Builder {
	return &Builder{
		clientID:     cfg.GetClientID(),
		clientSecret: cfg.GetClientSecret(),
	}
}

// Build assembles Credentials for the given grant type. An empty grantType
// defaults to the password grant. Missing grant-specific arguments fail with
// ErrInvalidArgument.
func (b *Builder) Build(args map[string]string, grantType oauth2.GrantType) (Credentials, error) {
	if grantType == "" {
		grantType = oauth2.PasswordGrant
	}
	if !grantType.Valid() {
		return Credentials{}, errs.Wrapf(errs.ErrInvalidArgument, "[Builder.Build] unsupported grant type %q", grantType)
	}

	creds := Credentials{
		GrantType:    grantType,
		ClientID:     b.clientID,
		ClientSecret: b.clientSecret,
		Scope:        args[ArgScope],
	}

	switch grantType {
	case oauth2.PasswordGrant:
		creds.Username = args[ArgUsername]
		creds.Password = args[ArgPassword]
		if creds.Username == "" || creds.Password == "" {
			return Credentials{}, errs.Wrapf(errs.ErrInvalidArgument, "[Builder.Build] username and password are required for the password grant")
		}
	case oauth2.RefreshTokenGrant:
		creds.RefreshToken = args[ArgRefreshToken]
		if creds.RefreshToken == "" {
			return Credentials{}, errs.Wrapf(errs.ErrInvalidArgument, "[Builder.Build] refreshToken is required for the refresh_token grant")
		}
	}

	return creds, nil
}
