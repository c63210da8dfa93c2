package mail

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"auth-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(host string, port int) *config.Config {
	cfg := &config.Config{}
	cfg.SMTP.Host = host
	cfg.SMTP.Port = port
	cfg.SMTP.From = "noreply@example.com"
	cfg.Security.ResetPasswordURL = "http://localhost:5173/reset-password"
	cfg.Security.ResetTokenTTL = time.Hour
	return cfg
}

func TestResetLink(t *testing.T) {
	m, err := NewMailer(testConfig("localhost", 2525))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5173/reset-password?token=abc123", m.ResetLink("abc123"))

	m.resetURL = "https://app.example.com/reset?lang=en"
	assert.Equal(t, "https://app.example.com/reset?lang=en&token=abc123", m.ResetLink("abc123"))
}

func TestResetMessage(t *testing.T) {
	m, err := NewMailer(testConfig("localhost", 2525))
	require.NoError(t, err)

	msg, err := m.resetMessage("alice@example.com", "deadbeef")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Password Reset")
	assert.Contains(t, raw, "<noreply@example.com>")
	assert.Contains(t, raw, "<alice@example.com>")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	// Bodies are quoted-printable encoded, so "=" is escaped.
	assert.Contains(t, raw, "reset-password?token")
	assert.Contains(t, raw, "deadbeef")
}

func TestResetMessage_InvalidRecipient(t *testing.T) {
	m, err := NewMailer(testConfig("localhost", 2525))
	require.NoError(t, err)

	_, err = m.resetMessage("not an address", "deadbeef")
	assert.Error(t, err)
}

func TestSendPasswordReset_UnreachableServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	m, err := NewMailer(testConfig("127.0.0.1", port))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = m.SendPasswordReset(ctx, "alice@example.com", "deadbeef")
	assert.Error(t, err)
}
