package authsession_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/blogsmith/blogsmith/authsession"
	"github.com/blogsmith/blogsmith/credentials"
	errs "github.com/blogsmith/blogsmith/internal/errors"
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

type fakeConfig struct{}

func (fakeConfig) GetClientID() string                          { return testClientID }
func (fakeConfig) GetClientSecret() string                     { return testClientSecret }
func (fakeConfig) GetUsernameField() string                    { return users.FieldEmail }
func (fakeConfig) GetTokenIssuer() string                      { return "blogsmith-test" }
func (fakeConfig) GetTokenSecret() string                      { return testTokenSecret }
func (fakeConfig) GetTokenEndpoint() string                    { return "" }
func (fakeConfig) GetDefaultAccessTokenExpiry() time.Duration  { return time.Hour }
func (fakeConfig) GetDefaultRefreshTokenExpiry() time.Duration { return 7 * 24 * time.Hour }
func (fakeConfig) GetRefreshTokenLength() int                  { return 32 }
func (fakeConfig) GetBcryptCost() int                          { return 4 }

// fakeNotifier records reset requests and reports sent only for addresses it
// was told exist.
type fakeNotifier struct {
	known map[string]bool
	sent  []string
	lock  sync.Mutex
}

func newFakeNotifier(knownEmails ...string) *fakeNotifier {
	known := make(map[string]bool)
	for _, email := range knownEmails {
		known[email] = true
	}
	return &fakeNotifier{known: known}
}

func (n *fakeNotifier) SendResetLink(_ context.Context, email string) (authsession.ResetOutcome, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if !n.known[email] {
		return authsession.ResetLinkNotSent, nil
	}
	n.sent = append(n.sent, email)
	return authsession.ResetLinkSent, nil
}

type testFixture struct {
	userRepo *userrepofake.FakeUserRepo
	manager  *token.Manager
	notifier *fakeNotifier
	service  *authsession.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := userrepofake.NewFakeUserRepo()
	rr := tokenrepofake.NewFakeRefreshTokenRepo()

	manager, err := token.New(fakeConfig{}, ur, rr, token.NewHMACSigner(testTokenSecret))
	require.NoError(t, err)

	notifier := newFakeNotifier(testUserEmail)
	service, err := authsession.NewService(
		fakeConfig{},
		credentials.NewBuilder(fakeConfig{}),
		manager,
		ur,
		notifier,
	)
	require.NoError(t, err)

	return &testFixture{
		userRepo: ur,
		manager:  manager,
		notifier: notifier,
		service:  service,
	}
}

func (f *testFixture) createTestUser(t *testing.T) *users.User {
	t.Helper()

	hash, err := users.HashPassword(testUserPassword, 4)
	require.NoError(t, err)

	user := &users.User{
		Name:         "John Doe",
		Email:        testUserEmail,
		PasswordHash: hash,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func TestLoginReturnsTokensAndUser(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	result, err := f.service.Login(context.Background(), testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "Bearer", result.TokenType)
	require.NotNil(t, result.User)
	require.Equal(t, user.ID, result.User.ID)
	require.Equal(t, testUserEmail, result.User.Email)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	result, err := f.service.Login(context.Background(), testUserEmail, "wrong-password")
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Nil(t, result)
}

func TestLoginRejectsMissingArguments(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Login(context.Background(), testUserEmail, "")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)
	require.NoError(t, f.userRepo.Delete(context.Background(), user.ID))

	_, err := f.service.Login(context.Background(), testUserEmail, testUserPassword)
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	refreshed, err := f.service.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEmpty(t, refreshed.RefreshToken)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshTokenRejectsUnknownToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	_, err := f.service.RefreshToken(context.Background(), "deadbeef")
	require.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestLogoutWithoutSession(t *testing.T) {
	f := setupTestFixture(t)

	status, err := f.service.Logout(context.Background())
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.Nil(t, status)
}

func TestLogoutRevokesCurrentToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	authedCtx := authsession.WithPrincipal(ctx, authsession.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: login.AccessToken,
	})

	status, err := f.service.Logout(authedCtx)
	require.NoError(t, err)
	require.Equal(t, authsession.StatusTokenRevoked, status.Status)

	introspection, err := f.manager.Introspect(login.AccessToken)
	require.NoError(t, err)
	require.False(t, introspection.Active)

	// A second logout on the already-revoked token is still a success.
	status, err = f.service.Logout(authedCtx)
	require.NoError(t, err)
	require.Equal(t, authsession.StatusTokenRevoked, status.Status)
}

func TestForgotPasswordUnknownEmailIsNotAnError(t *testing.T) {
	f := setupTestFixture(t)

	status, err := f.service.ForgotPassword(context.Background(), "nonexistent@example.com")
	require.NoError(t, err)
	require.Equal(t, authsession.ResetLinkNotSent, status.Status)
	require.Empty(t, f.notifier.sent)
}

func TestForgotPasswordKnownEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	status, err := f.service.ForgotPassword(context.Background(), testUserEmail)
	require.NoError(t, err)
	require.Equal(t, authsession.ResetLinkSent, status.Status)
	require.Equal(t, []string{testUserEmail}, f.notifier.sent)
}

func TestRegisterAutoAuthenticates(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.Register(context.Background(), authsession.RegisterInput{
		Name:                 "Jane Doe",
		Email:                "jane.doe@example.com",
		Password:             "password456",
		PasswordConfirmation: "password456",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.NotNil(t, result.User)
	require.Equal(t, "jane.doe@example.com", result.User.Email)

	stored, err := f.userRepo.GetByField(context.Background(), users.FieldEmail, "jane.doe@example.com")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("password456", stored.PasswordHash))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	_, err := f.service.Register(context.Background(), authsession.RegisterInput{
		Name:     "Impostor",
		Email:    testUserEmail,
		Password: "password456",
	})
	require.ErrorIs(t, err, errs.ErrDuplicateUser)
}

func TestRegisterValidation(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name  string
		input authsession.RegisterInput
	}{
		{"missing name", authsession.RegisterInput{Email: "a@b.com", Password: "x"}},
		{"missing email", authsession.RegisterInput{Name: "A", Password: "x"}},
		{"missing password", authsession.RegisterInput{Name: "A", Email: "a@b.com"}},
		{"confirmation mismatch", authsession.RegisterInput{Name: "A", Email: "a@b.com", Password: "x", PasswordConfirmation: "y"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Register(context.Background(), tc.input)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}
