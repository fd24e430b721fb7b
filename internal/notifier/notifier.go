package notifier

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSubject is the fixed subject line of vacancy alerts
const DefaultSubject = "STW Dortmund Room Alert!"

// Message is a single alert
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier defines the interface for delivering alerts
type Notifier interface {
	// Notify delivers exactly one message
	Notify(ctx context.Context, msg Message) error
}

// NotifyError is returned when delivery failed
type NotifyError struct {
	Op  string // compose, connect or send
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Op, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// ComposeAlert builds the alert body: the listings link plus any extracted offer details
func ComposeAlert(to, subject, pageURL, details string) Message {
	if subject == "" {
		subject = DefaultSubject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A room offer might be live at STW Dortmund! Check now: %s\n", pageURL)
	if details = strings.TrimSpace(details); details != "" {
		b.WriteString("\nOffers found:\n\n")
		b.WriteString(details)
		b.WriteString("\n")
	}

	return Message{
		To:      to,
		Subject: subject,
		Body:    b.String(),
	}
}
