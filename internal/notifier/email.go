package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/room-watch/internal/credentials"
	"github.com/wneessen/go-mail"
)

const (
	DefaultSMTPHost    = "smtp.gmail.com"
	DefaultSMTPPort    = 465
	DefaultSMTPTimeout = 30 * time.Second
)

// SMTPConfig configures an EmailNotifier
type SMTPConfig struct {
	Host    string
	Port    int
	From    string // defaults to the login user
	Timeout time.Duration
}

// EmailNotifier sends alerts through an authenticated SMTP-over-TLS relay
type EmailNotifier struct {
	cfg   SMTPConfig
	creds credentials.Credentials
}

// NewEmailNotifier creates an email notifier. Incomplete credentials yield
// credentials.ErrCredentialsMissing.
func NewEmailNotifier(cfg SMTPConfig, creds credentials.Credentials) (*EmailNotifier, error) {
	if !creds.Complete() {
		return nil, credentials.ErrCredentialsMissing
	}
	if cfg.Host == "" {
		cfg.Host = DefaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultSMTPPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}
	if cfg.From == "" {
		cfg.From = creds.User
	}
	return &EmailNotifier{cfg: cfg, creds: creds}, nil
}

// Notify sends msg. Failures are *NotifyError.
func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	m, err := n.compose(msg)
	if err != nil {
		return &NotifyError{Op: "compose", Err: err}
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.creds.User),
		mail.WithPassword(n.creds.Password),
		mail.WithTimeout(n.cfg.Timeout),
	)
	if err != nil {
		return &NotifyError{Op: "connect", Err: fmt.Errorf("creating SMTP client: %w", err)}
	}

	// DialWithContext also performs the AUTH exchange
	if err := client.DialWithContext(ctx); err != nil {
		return &NotifyError{Op: "connect", Err: err}
	}

	sendErr := client.Send(m)
	closeErr := client.Close()
	if sendErr != nil {
		return &NotifyError{Op: "send", Err: sendErr}
	}
	if closeErr != nil {
		return &NotifyError{Op: "send", Err: fmt.Errorf("closing SMTP session: %w", closeErr)}
	}
	return nil
}

func (n *EmailNotifier) compose(msg Message) (*mail.Msg, error) {
	to := msg.To
	if to == "" {
		to = n.creds.User
	}
	if msg.Subject == "" {
		return nil, errors.New("empty subject")
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.cfg.From, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
