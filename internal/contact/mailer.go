// Package contact validates contact form submissions and delivers them by
// e-mail.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Krex381/krexdll/internal/logging"
)

const MaxMessageLen = 5000

var (
	ErrInvalidForm   = errors.New("invalid contact form")
	ErrNotConfigured = errors.New("SMTP credentials not configured")
)

type Form struct {
	Name    string `form:"fullName" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// Validate trims the fields in place and checks them.
func (f *Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)

	switch {
	case f.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidForm)
	case strings.ContainsAny(f.Name, "\r\n"):
		return fmt.Errorf("%w: name must be a single line", ErrInvalidForm)
	case f.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidForm)
	case f.Message == "":
		return fmt.Errorf("%w: message is required", ErrInvalidForm)
	case utf8.RuneCountInString(f.Message) > MaxMessageLen:
		return fmt.Errorf("%w: message is longer than %d characters", ErrInvalidForm, MaxMessageLen)
	}

	addr, err := mail.ParseAddress(f.Email)
	if err != nil || addr.Address != f.Email {
		return fmt.Errorf("%w: email address is not valid", ErrInvalidForm)
	}
	return nil
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  SMTPConfig
	log  logging.Logger
	send sendFunc
}

func NewMailer(cfg SMTPConfig, log logging.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		log:  log.With("component", "contact"),
		send: smtp.SendMail,
	}
}

// Send validates the form and mails it. The returned id is also the
// Message-ID local part.
func (m *Mailer) Send(ctx context.Context, f Form) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	msg := m.compose(id, f)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, msg); err != nil {
		m.log.Error(ctx, "sending contact mail failed", "id", id, "error", err)
		return "", fmt.Errorf("send contact mail: %w", err)
	}

	m.log.Info(ctx, "contact mail sent", "id", id, "from", f.Email)
	return id, nil
}

func (m *Mailer) compose(id string, f Form) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", f.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Message)

	domain := "krex38.xyz"
	if _, host, ok := strings.Cut(m.cfg.User, "@"); ok {
		domain = host
	}

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + f.Email + "\r\n" +
		"Message-ID: <" + id + "@" + domain + ">\r\n" +
		"\r\n" +
		body + "\r\n")
}
