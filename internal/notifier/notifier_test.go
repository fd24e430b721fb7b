package notifier

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/room-watch/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAlert(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		details     string
		wantSubject string
		contains    []string
		excludes    []string
	}{
		{
			name:        "with details",
			details:     "Room A\n\nRoom B",
			wantSubject: DefaultSubject,
			contains:    []string{"https://example.test/offers", "Offers found:", "Room A\n\nRoom B"},
		},
		{
			name:        "without details",
			details:     "   ",
			wantSubject: DefaultSubject,
			contains:    []string{"Check now: https://example.test/offers"},
			excludes:    []string{"Offers found"},
		},
		{
			name:        "custom subject",
			subject:     "Room!",
			wantSubject: "Room!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ComposeAlert("me@example.com", tt.subject, "https://example.test/offers", tt.details)

			assert.Equal(t, "me@example.com", msg.To)
			assert.Equal(t, tt.wantSubject, msg.Subject)
			for _, want := range tt.contains {
				assert.Contains(t, msg.Body, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, msg.Body, unwanted)
			}
		})
	}
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewDryRunNotifier(&buf)

	msg := ComposeAlert("me@example.com", "", "https://example.test", "Room 7")
	require.NoError(t, n.Notify(context.Background(), msg))

	out := buf.String()
	assert.Contains(t, out, "To: me@example.com")
	assert.Contains(t, out, "Subject: "+DefaultSubject)
	assert.Contains(t, out, "Room 7")
}

func TestNewEmailNotifier(t *testing.T) {
	_, err := NewEmailNotifier(SMTPConfig{}, credentials.Credentials{User: "me@example.com"})
	assert.ErrorIs(t, err, credentials.ErrCredentialsMissing)

	n, err := NewEmailNotifier(SMTPConfig{}, credentials.Credentials{User: "me@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSMTPHost, n.cfg.Host)
	assert.Equal(t, DefaultSMTPPort, n.cfg.Port)
	assert.Equal(t, DefaultSMTPTimeout, n.cfg.Timeout)
	assert.Equal(t, "me@example.com", n.cfg.From)
}

func TestEmailNotifier_Compose(t *testing.T) {
	n, err := NewEmailNotifier(SMTPConfig{}, credentials.Credentials{User: "me@example.com", Password: "pw"})
	require.NoError(t, err)

	m, err := n.compose(Message{Subject: "Hello", Body: "Body text"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "To: <me@example.com>")
	assert.Contains(t, raw, "Body text")

	_, err = n.compose(Message{To: "not an address", Subject: "Hello"})
	assert.Error(t, err)
}

func TestEmailNotifier_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close() // nolint:errcheck

	n, err := NewEmailNotifier(
		SMTPConfig{Host: "127.0.0.1", Port: port, Timeout: 2 * time.Second},
		credentials.Credentials{User: "me@example.com", Password: "pw"},
	)
	require.NoError(t, err)

	err = n.Notify(context.Background(), ComposeAlert("", "", "https://example.test", ""))

	var notifyErr *NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Equal(t, "connect", notifyErr.Op)
	assert.True(t, strings.HasPrefix(err.Error(), "notify connect:"))
}

func TestEmailNotifier_ComposeFailure(t *testing.T) {
	n, err := NewEmailNotifier(SMTPConfig{}, credentials.Credentials{User: "me@example.com", Password: "pw"})
	require.NoError(t, err)

	err = n.Notify(context.Background(), Message{To: "me@example.com"})

	var notifyErr *NotifyError
	require.ErrorAs(t, err, &notifyErr)
	assert.Equal(t, "compose", notifyErr.Op)
}
