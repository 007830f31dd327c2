package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #111827;">
  <h2>Welcome to SpendWise, {{.Name}}!</h2>
  <p>Your account is ready. We've set up a few default categories so you can start
  recording income and expenses right away.</p>
  <p>Your financial month starts on day 1 by default. You can change the start day,
  currency and timezone from your profile at any time.</p>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #111827;">
  <h2>Reset your password</h2>
  <p>Hi {{.Name}}, we received a request to reset your SpendWise password.</p>
  <p><a href="{{.Link}}">Choose a new password</a></p>
  <p>The link expires in one hour. If you did not ask for this, you can ignore this email.</p>
</body>
</html>`))

// SMTPMailer sends transactional email through an SMTP relay
type SMTPMailer struct {
	from string
	send func(m *gomail.Message) error
}

// NewSMTPMailer creates a mailer from the SMTP settings
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{
		from: cfg.From,
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

// SendWelcome sends the greeting mailed after signup
func (s *SMTPMailer) SendWelcome(to, name string) error {
	return s.sendTemplate(to, "Welcome to SpendWise", welcomeTemplate, map[string]string{"Name": name})
}

// SendPasswordReset mails the reset link
func (s *SMTPMailer) SendPasswordReset(to, name, link string) error {
	return s.sendTemplate(to, "Reset your SpendWise password", resetTemplate, map[string]string{"Name": name, "Link": link})
}

func (s *SMTPMailer) sendTemplate(to, subject string, tmpl *template.Template, data interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := s.send(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", to).Str("template", tmpl.Name()).Msg("Email sent")
	return nil
}

// LogMailer only logs outgoing mail. It is used when SMTP is not configured.
type LogMailer struct{}

// SendWelcome logs the welcome email
func (LogMailer) SendWelcome(to, name string) error {
	log.Info().Str("to", to).Msg("SMTP disabled, skipping welcome email")
	return nil
}

// SendPasswordReset logs the reset link so it can be used in development
func (LogMailer) SendPasswordReset(to, name, link string) error {
	log.Info().Str("to", to).Str("link", link).Msg("SMTP disabled, password reset link")
	return nil
}
