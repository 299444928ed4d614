package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// Mailer delivers the password-reset message. Implementations must not block
// longer than the request deadline allows.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, firstName, token string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	AppName  string
	BaseURL  string // frontend origin the reset link points at
}

type smtpMailer struct {
	cfg  SMTPConfig
	tmpl *template.Template
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		cfg:  cfg,
		tmpl: template.Must(template.New("reset").Parse(resetBody)),
	}
}

const resetBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
  <div style="background-color: #1DB954; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">{{.AppName}}</h1>
  </div>
  <div style="padding: 20px;">
    <h2 style="color: #1DB954;">Hi {{.FirstName}},</h2>
    <p>We received a request to reset your password.</p>
    <p style="text-align: center; margin: 30px 0;">
      <a href="{{.ResetURL}}"
         style="display: inline-block; padding: 12px 24px; background-color: #1DB954;
         color: white; text-decoration: none; border-radius: 500px; font-weight: bold;">
         Reset password
      </a>
    </p>
    <p>If you did not request this change you can ignore this message.</p>
    <p style="font-size: 12px; color: #777;">
      This link expires in 1 hour. If the button does not work, copy this URL into your browser:<br>
      {{.ResetURL}}
    </p>
  </div>
</div>`

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	resetURL := m.cfg.BaseURL + "/reset-password?token=" + token

	var body bytes.Buffer
	err := m.tmpl.Execute(&body, map[string]string{
		"AppName":   m.cfg.AppName,
		"FirstName": firstName,
		"ResetURL":  resetURL,
	})
	if err != nil {
		return fmt.Errorf("mail.SendPasswordReset render: %w", err)
	}

	msg := []byte("From: " + m.cfg.AppName + " <" + m.cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Reset your " + m.cfg.AppName + " password\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n" +
		"\r\n" + body.String())

	// net/smtp has no context support; bound the call so a stalled relay
	// cannot pin the request.
	done := make(chan error, 1)
	go func() {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		done <- smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail.SendPasswordReset: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail.SendPasswordReset: %w", ctx.Err())
	case <-time.After(15 * time.Second):
		return fmt.Errorf("mail.SendPasswordReset: smtp send timed out")
	}
}
