// Package notify dispatches password-reset links. The notifier resolves the
// address against the user directory, mints a single-use reset token, and
// hands the composed message to a Mailer.
package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/blogsmith/blogsmith/authsession"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/users"
	"github.com/pkg/errors"
)

const resetTokenBytes = 32

// ResetToken is a pending password-reset request.
type ResetToken struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ResetTokenRepo persists pending reset tokens. Get returns ErrNotFound for
// unknown or already consumed tokens.
type ResetTokenRepo interface {
	Create(ctx context.Context, rt *ResetToken) error
	Get(ctx context.Context, token string) (*ResetToken, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// Mailer delivers a composed message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotifierConfig is the slice of configuration the notifier needs.
type NotifierConfig interface {
	GetBaseURL() string
	GetResetTokenExpiry() time.Duration
}

// Notifier implements authsession.ResetNotifier.
type Notifier struct {
	users       users.Repo
	resets      ResetTokenRepo
	mailer      Mailer
	baseURL     string
	tokenExpiry time.Duration
	nowFunc     func() time.Time
}

type NotifierOption func(*Notifier)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		n.nowFunc = now
	}
}

func NewNotifier(
	cfg NotifierConfig,
	userRepo users.Repo,
	resetRepo ResetTokenRepo,
	mailer Mailer,
	options ...NotifierOption,
) (*Notifier, error) {
	if userRepo == nil {
		return nil, errors.New("[NewNotifier] user repo is required")
	}
	if resetRepo == nil {
		return nil, errors.New("[NewNotifier] reset token repo is required")
	}
	if mailer == nil {
		return nil, errors.New("[NewNotifier] mailer is required")
	}

	n := &Notifier{
		users:       userRepo,
		resets:      resetRepo,
		mailer:      mailer,
		baseURL:     cfg.GetBaseURL(),
		tokenExpiry: cfg.GetResetTokenExpiry(),
		nowFunc:     time.Now,
	}

	for _, opt := range options {
		opt(n)
	}

	return n, nil
}

// SendResetLink mints a reset token for the address and emails the link. An
// address with no directory record reports ResetLinkNotSent without error so
// callers cannot distinguish it from a delivery failure.
func (n *Notifier) SendResetLink(ctx context.Context, email string) (authsession.ResetOutcome, error) {
	user, err := n.users.GetByField(ctx, users.FieldEmail, email)
	if err != nil {
		if errs.Is(err, errs.ErrUserNotFound) {
			return authsession.ResetLinkNotSent, nil
		}
		return authsession.ResetLinkNotSent, errors.Wrap(err, "[Notifier.SendResetLink] GetByField")
	}

	token, err := generateResetToken()
	if err != nil {
		return authsession.ResetLinkNotSent, errors.Wrap(err, "[Notifier.SendResetLink] generateResetToken")
	}

	// Any previous pending token for the address is superseded.
	if err := n.resets.DeleteByEmail(ctx, user.Email); err != nil {
		return authsession.ResetLinkNotSent, errors.Wrap(err, "[Notifier.SendResetLink] DeleteByEmail")
	}

	now := n.nowFunc()
	if err := n.resets.Create(ctx, &ResetToken{
		Token:     token,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(n.tokenExpiry),
	}); err != nil {
		return authsession.ResetLinkNotSent, errors.Wrap(err, "[Notifier.SendResetLink] Create")
	}

	link := fmt.Sprintf("%s/password/reset/%s", n.baseURL, token)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nA password reset was requested for your account. "+
			"Follow the link below within %s to choose a new password:\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, no action is needed.\r\n",
		user.Name, n.tokenExpiry, link,
	)

	if err := n.mailer.Send(ctx, user.Email, "Password reset request", body); err != nil {
		return authsession.ResetLinkNotSent, errors.Wrap(err, "[Notifier.SendResetLink] Send")
	}

	return authsession.ResetLinkSent, nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[generateResetToken] rand.Read")
	}
	return hex.EncodeToString(buf), nil
}
