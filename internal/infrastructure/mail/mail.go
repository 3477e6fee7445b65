// Package mail sends transactional email: password reset links for now.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender for apiKey.
func NewResendSender(apiKey, from string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	if from == "" {
		return nil, errors.New("mail sender address is required")
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. It is the
// development default.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Email not sent (log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}

// NewSender picks the provider named in cfg.
func NewSender(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.From)
	case "", "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

var resetHTML = template.Must(template.New("reset").Parse(`<p>Hello,</p>
<p>Someone asked to reset the password of your Cuadre account. Use the link below to choose a new one:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in {{.Expires}}. If you did not ask for this, ignore this email.</p>
`))

// ResetMailer formats and sends password reset emails.
type ResetMailer struct {
	sender    Sender
	urlFormat string
	expires   string
}

// NewResetMailer creates a ResetMailer. urlFormat is a fmt pattern whose
// single verb receives the token.
func NewResetMailer(sender Sender, cfg config.MailConfig) *ResetMailer {
	return &ResetMailer{
		sender:    sender,
		urlFormat: cfg.ResetURLFormat,
		expires:   cfg.ResetTokenTTL.String(),
	}
}

// SendPasswordReset mails the reset link for token to email.
func (m *ResetMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	link := fmt.Sprintf(m.urlFormat, token)
	var body bytes.Buffer
	if err := resetHTML.Execute(&body, map[string]string{"Link": link, "Expires": m.expires}); err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}
	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: "Reset your Cuadre password",
		Text:    "Reset your password: " + link + "\nThe link expires in " + m.expires + ".",
		HTML:    body.String(),
	})
}
