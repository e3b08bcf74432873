package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
)

// SMTPConfig is the slice of configuration the SMTP mailer needs.
type SMTPConfig interface {
	GetAppName() string
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpAccount() string
	GetSmtpPassword() string
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	appName  string
	host     string
	port     string
	account  string
	password string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		appName:  cfg.GetAppName(),
		host:     cfg.GetSmtpHost(),
		port:     cfg.GetSmtpPort(),
		account:  cfg.GetSmtpAccount(),
		password: cfg.GetSmtpPassword(),
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.appName, m.account),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.account, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.account, []string{to}, []byte(msg)); err != nil {
		return errors.Wrap(err, "[SMTPMailer.Send] SendMail")
	}
	return nil
}
