package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/blogsmith/blogsmith/credentials"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/oauth2"
	"github.com/blogsmith/blogsmith/token"
	tokenrepofake "github.com/blogsmith/blogsmith/token/repofake"
	"github.com/blogsmith/blogsmith/users"
	userrepofake "github.com/blogsmith/blogsmith/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client"
	testClientSecret = "test-secret"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "password123"
	testTokenSecret  = "0123456789abcdef0123456789abcdef"
)

type fakeOAuthConfig struct{}

func (fakeOAuthConfig) GetClientID() string                          { return testClientID }
func (fakeOAuthConfig) GetClientSecret() string                     { return testClientSecret }
func (fakeOAuthConfig) GetUsernameField() string                    { return users.FieldEmail }
func (fakeOAuthConfig) GetTokenIssuer() string                      { return "blogsmith-test" }
func (fakeOAuthConfig) GetTokenSecret() string                      { return testTokenSecret }
func (fakeOAuthConfig) GetTokenEndpoint() string                    { return "" }
func (fakeOAuthConfig) GetDefaultAccessTokenExpiry() time.Duration  { return time.Hour }
func (fakeOAuthConfig) GetDefaultRefreshTokenExpiry() time.Duration { return 7 * 24 * time.Hour }
func (fakeOAuthConfig) GetRefreshTokenLength() int                  { return 32 }

type testFixture struct {
	userRepo    users.Repo
	refreshRepo token.RefreshTokenRepo
	manager     *token.Manager
	user        *users.User
}

func setupTestFixture(t *testing.T, options ...token.ManagerOption) *testFixture {
	t.Helper()

	ur := userrepofake.NewFakeUserRepo()
	rr := tokenrepofake.NewFakeRefreshTokenRepo()

	hash, err := users.HashPassword(testUserPassword, 4)
	require.NoError(t, err)

	user := &users.User{
		Name:         "John Doe",
		Email:        testUserEmail,
		PasswordHash: hash,
	}
	require.NoError(t, ur.Create(context.Background(), user))

	manager, err := token.New(fakeOAuthConfig{}, ur, rr, token.NewHMACSigner(testTokenSecret), options...)
	require.NoError(t, err)

	return &testFixture{
		userRepo:    ur,
		refreshRepo: rr,
		manager:     manager,
		user:        user,
	}
}

func passwordCredentials() credentials.Credentials {
	return credentials.Credentials{
		GrantType:    oauth2.PasswordGrant,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Username:     testUserEmail,
		Password:     testUserPassword,
	}
}

func TestPasswordGrantIssuesTokenPair(t *testing.T) {
	f := setupTestFixture(t)

	tr, err := f.manager.Grant(context.Background(), passwordCredentials())
	require.NoError(t, err)

	require.NotEmpty(t, tr.AccessToken)
	require.NotEmpty(t, tr.RefreshToken)
	require.Equal(t, "Bearer", tr.TokenType)
	require.Equal(t, int(time.Hour.Seconds()), tr.ExpiresIn)

	introspection, err := f.manager.Introspect(tr.AccessToken)
	require.NoError(t, err)
	require.True(t, introspection.Active)
	require.Equal(t, f.user.ID, introspection.Sub)
	require.Equal(t, testUserEmail, introspection.Email)
}

func TestPasswordGrantRejectsBadPassword(t *testing.T) {
	f := setupTestFixture(t)

	creds := passwordCredentials()
	creds.Password = "wrong-password"

	tr, err := f.manager.Grant(context.Background(), creds)
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Nil(t, tr)
}

func TestPasswordGrantRejectsUnknownUser(t *testing.T) {
	f := setupTestFixture(t)

	creds := passwordCredentials()
	creds.Username = "nobody@example.com"

	_, err := f.manager.Grant(context.Background(), creds)
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestGrantRejectsBadClientSecret(t *testing.T) {
	f := setupTestFixture(t)

	creds := passwordCredentials()
	creds.ClientSecret = "not-the-secret"

	_, err := f.manager.Grant(context.Background(), creds)
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestRefreshGrantRotatesToken(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	first, err := f.manager.Grant(ctx, passwordCredentials())
	require.NoError(t, err)

	second, err := f.manager.Grant(ctx, credentials.Credentials{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token was rotated out and no longer grants.
	_, err = f.manager.Grant(ctx, credentials.Credentials{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: first.RefreshToken,
	})
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestRefreshGrantRejectsExpiredToken(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, token.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	tr, err := f.manager.Grant(ctx, passwordCredentials())
	require.NoError(t, err)

	now = now.Add(8 * 24 * time.Hour)

	_, err = f.manager.Grant(ctx, credentials.Credentials{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: tr.RefreshToken,
	})
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestRevokeInvalidatesAccessAndRefreshTokens(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	tr, err := f.manager.Grant(ctx, passwordCredentials())
	require.NoError(t, err)

	require.NoError(t, f.manager.Revoke(ctx, tr.AccessToken))

	introspection, err := f.manager.Introspect(tr.AccessToken)
	require.NoError(t, err)
	require.False(t, introspection.Active)

	_, err = f.manager.Grant(ctx, credentials.Credentials{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: tr.RefreshToken,
	})
	require.ErrorIs(t, err, errs.ErrAuthentication)

	// Revoking the same token again is not an error.
	require.NoError(t, f.manager.Revoke(ctx, tr.AccessToken))
}

func TestRevokeRejectsGarbageToken(t *testing.T) {
	f := setupTestFixture(t)

	err := f.manager.Revoke(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestIntrospectEmptyToken(t *testing.T) {
	f := setupTestFixture(t)

	introspection, err := f.manager.Introspect("")
	require.NoError(t, err)
	require.False(t, introspection.Active)
}
