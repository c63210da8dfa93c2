package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"auth-backend/internal/config"
	"auth-backend/internal/logger"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const resetSubject = "Password Reset"

var resetHTML = template.Must(template.New("reset").Parse(
	`<p>You requested a password reset.</p>` +
		`<p><a href="{{.Link}}">Reset your password</a></p>` +
		`<p>The link expires in {{.TTL}}. If you did not ask for this, ignore this email.</p>`,
))

// Mailer sends password reset links over SMTP.
type Mailer struct {
	client   *gomail.Client
	from     string
	resetURL string
	ttl      time.Duration
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTP.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(10 * time.Second),
	}
	if cfg.SMTP.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTP.User),
			gomail.WithPassword(cfg.SMTP.Password),
		)
	}

	client, err := gomail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client:   client,
		from:     cfg.SMTP.From,
		resetURL: cfg.Security.ResetPasswordURL,
		ttl:      cfg.Security.ResetTokenTTL,
	}, nil
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, token string) error {
	msg, err := m.resetMessage(email, token)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	logger.Info("Password reset email sent",
		zap.String("email", email),
		zap.String("event", "password_reset_email_sent"),
	)
	return nil
}

func (m *Mailer) resetMessage(email, token string) (*gomail.Msg, error) {
	link := m.ResetLink(token)

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"You requested a password reset.\n\nOpen this link to choose a new password:\n%s\n\nThe link expires in %s.\n",
		link, m.ttl,
	))

	var html bytes.Buffer
	if err := resetHTML.Execute(&html, struct {
		Link string
		TTL  time.Duration
	}{link, m.ttl}); err != nil {
		return nil, fmt.Errorf("failed to render reset email: %w", err)
	}
	msg.AddAlternativeString(gomail.TypeTextHTML, html.String())

	return msg, nil
}

// ResetLink is the front-end URL carrying token as a query parameter.
func (m *Mailer) ResetLink(token string) string {
	u, err := url.Parse(m.resetURL)
	if err != nil {
		return m.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
