package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blogsmith/blogsmith/credentials"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/blogsmith/blogsmith/token/remote"
	"github.com/stretchr/testify/require"
)

func passwordCredentials() credentials.Credentials {
	return credentials.Credentials{
		GrantType:    oauth2.PasswordGrant,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Username:     "john.doe@example.com",
		Password:     "password123",
	}
}

func tokenEndpoint(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestGrantPassword(t *testing.T) {
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "password", r.Form.Get("grant_type"))
		require.Equal(t, "john.doe@example.com", r.Form.Get("username"))
		require.Equal(t, "test-client", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "remote-access-token",
			"refresh_token": "remote-refresh-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`))
	})

	service := remote.New(ts.URL, ts.URL+"/revoke")
	tr, err := service.Grant(context.Background(), passwordCredentials())
	require.NoError(t, err)
	require.Equal(t, "remote-access-token", tr.AccessToken)
	require.Equal(t, "remote-refresh-token", tr.RefreshToken)
	require.Equal(t, "Bearer", tr.TokenType)
	require.InDelta(t, 3600, tr.ExpiresIn, 5)
}

func TestGrantRefresh(t *testing.T) {
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		require.Equal(t, "old-refresh-token", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "rotated-access-token",
			"refresh_token": "rotated-refresh-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`))
	})

	service := remote.New(ts.URL, ts.URL+"/revoke")
	tr, err := service.Grant(context.Background(), credentials.Credentials{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RefreshToken: "old-refresh-token",
	})
	require.NoError(t, err)
	require.Equal(t, "rotated-access-token", tr.AccessToken)
	require.Equal(t, "rotated-refresh-token", tr.RefreshToken)
}

func TestGrantRejected(t *testing.T) {
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
	})

	service := remote.New(ts.URL, ts.URL+"/revoke")
	_, err := service.Grant(context.Background(), passwordCredentials())
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestGrantUpstreamDown(t *testing.T) {
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	service := remote.New(ts.URL, ts.URL+"/revoke")
	_, err := service.Grant(context.Background(), passwordCredentials())
	require.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
}

func TestGrantUnreachableEndpoint(t *testing.T) {
	service := remote.New("http://127.0.0.1:1/token", "http://127.0.0.1:1/revoke")
	_, err := service.Grant(context.Background(), passwordCredentials())
	require.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
}

func TestRevoke(t *testing.T) {
	var revokedToken string
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		revokedToken = r.Form.Get("token")
		w.WriteHeader(http.StatusOK)
	})

	service := remote.New(ts.URL, ts.URL)
	require.NoError(t, service.Revoke(context.Background(), "the-access-token"))
	require.Equal(t, "the-access-token", revokedToken)
}

func TestRevokeRejected(t *testing.T) {
	ts := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	service := remote.New(ts.URL, ts.URL)
	err := service.Revoke(context.Background(), "the-access-token")
	require.ErrorIs(t, err, errs.ErrAuthentication)
}
