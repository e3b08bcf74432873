package config

import (
	"strconv"
	"time"
)

// OAuthConfig carries the token-grant settings: the client credentials this
// backend presents to the token service, the user-directory field logins key
// on, and token lifetimes for the in-process issuer.
type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetUsernameField() string
	GetTokenIssuer() string
	GetTokenSecret() string
	GetTokenEndpoint() string
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

type OAuth struct {
	clientID           string
	clientSecret       string
	usernameField      string
	tokenIssuer        string
	tokenSecret        string
	tokenEndpoint      string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

var _ OAuthConfig = OAuth{}

func loadOAuth() OAuth {
	return OAuth{
		clientID:           GetEnv("OAUTH_CLIENT_ID", "blogsmith-web"),
		clientSecret:       GetEnv("OAUTH_CLIENT_SECRET", ""),
		usernameField:      GetEnv("AUTH_USERNAME_FIELD", "email"),
		tokenIssuer:        GetEnv("TOKEN_ISSUER", "blogsmith"),
		tokenSecret:        GetEnv("TOKEN_SECRET", ""),
		tokenEndpoint:      GetEnv("TOKEN_ENDPOINT", ""),
		accessTokenExpiry:  durationEnv("ACCESS_TOKEN_EXPIRY", 1*time.Hour),
		refreshTokenExpiry: durationEnv("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
	}
}

func (o OAuth) GetClientID() string {
	return o.clientID
}

func (o OAuth) GetClientSecret() string {
	return o.clientSecret
}

// GetUsernameField names the user-directory column logins are keyed on.
func (o OAuth) GetUsernameField() string {
	return o.usernameField
}

func (o OAuth) GetTokenIssuer() string {
	return o.tokenIssuer
}

func (o OAuth) GetTokenSecret() string {
	return o.tokenSecret
}

// GetTokenEndpoint returns the URL of an external OAuth2 token endpoint.
// When empty the in-process token manager is used instead.
func (o OAuth) GetTokenEndpoint() string {
	return o.tokenEndpoint
}

func (o OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return o.accessTokenExpiry
}

func (o OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return o.refreshTokenExpiry
}

func (o OAuth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
