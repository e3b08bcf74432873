// Package remote implements the token service boundary against an external
// OAuth2 authorization server over HTTP.
package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/credentials"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/pkg/errors"
	xoauth2 "golang.org/x/oauth2"
)

// Service exchanges grants with an external OAuth2 token endpoint. It
// performs no internal retries; transport failures surface as
// ErrUpstreamUnavailable and grant rejections as ErrAuthentication.
type Service struct {
	tokenURL   string
	revokeURL  string
	httpClient *http.Client
	nowFunc    func() time.Time
}

type Option func(*Service)

// WithHTTPClient overrides the HTTP client used for both grant and
// revocation calls. Timeouts belong to the client, not this layer.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func New(tokenURL, revokeURL string, options ...Option) *Service {
	s := &Service{
		tokenURL:   tokenURL,
		revokeURL:  revokeURL,
		httpClient: http.DefaultClient,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Grant forwards the credentials to the remote token endpoint and reshapes
// the response.
func (s *Service) Grant(ctx context.Context, creds credentials.Credentials) (*oauth2.TokenResponse, error) {
	conf := &xoauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: xoauth2.Endpoint{
			TokenURL:  s.tokenURL,
			AuthStyle: xoauth2.AuthStyleInParams,
		},
	}
	if creds.Scope != "" {
		conf.Scopes = strings.Fields(creds.Scope)
	}

	ctx = context.WithValue(ctx, xoauth2.HTTPClient, s.httpClient)

	var tok *xoauth2.Token
	var err error
	switch creds.GrantType {
	case oauth2.PasswordGrant:
		tok, err = conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	case oauth2.RefreshTokenGrant:
		tok, err = conf.TokenSource(ctx, &xoauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	default:
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Service.Grant] unsupported grant type %q", creds.GrantType)
	}
	if err != nil {
		return nil, s.mapRetrieveError(err)
	}

	expiresIn := 0
	if !tok.Expiry.IsZero() {
		expiresIn = int(tok.Expiry.Sub(s.nowFunc()).Seconds())
	}

	return &oauth2.TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    expiresIn,
		Scope:        creds.Scope,
	}, nil
}

// Revoke posts the access token to the RFC 7009 revocation endpoint.
// Servers answer 200 for unknown tokens, so a second revocation of the same
// token is still a success.
func (s *Service) Revoke(ctx context.Context, accessToken string) error {
	form := url.Values{
		"token":           {accessToken},
		"token_type_hint": {"access_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "[Service.Revoke] build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errs.Wrapf(errs.ErrUpstreamUnavailable, "[Service.Revoke] %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return errs.Wrapf(errs.ErrAuthentication, "[Service.Revoke] revocation rejected with status %d", resp.StatusCode)
	default:
		return errs.Wrapf(errs.ErrUpstreamUnavailable, "[Service.Revoke] unexpected status %d", resp.StatusCode)
	}
}

// mapRetrieveError distinguishes a grant the server rejected from a server
// that could not be reached.
func (s *Service) mapRetrieveError(err error) error {
	var retrieveErr *xoauth2.RetrieveError
	if errs.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500 {
			return errs.Wrapf(errs.ErrUpstreamUnavailable, "[Service.Grant] token endpoint status %d", retrieveErr.Response.StatusCode)
		}
		return errs.Wrapf(errs.ErrAuthentication, "[Service.Grant] grant rejected: %s", retrieveErr.ErrorCode)
	}
	return errs.Wrapf(errs.ErrUpstreamUnavailable, "[Service.Grant] %v", err)
}
