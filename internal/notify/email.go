// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

// VerificationSubject is the subject line of verification code emails.
const VerificationSubject = "Your Zuva Network Verification Code"

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Email    string // sender address and SMTP username
	Password string
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	from   string
	sender Sender
}

// NewMailer creates a Mailer. A Mailer built from an incomplete config
// returns ErrNotConfigured from every send.
func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.Host == "" || cfg.Email == "" || cfg.Password == "" {
		return &Mailer{}
	}
	return &Mailer{
		from:   cfg.Email,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
	}
}

// NewMailerWithSender creates a Mailer that hands messages to s.
func NewMailerWithSender(from string, s Sender) *Mailer {
	return &Mailer{from: from, sender: s}
}

var verificationTmpl = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 10px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
    <h2 style="color: #1a1a2e; text-align: center;">Welcome to Zuva Network! {{if .Name}}Hi {{.Name}},{{end}}</h2>
    <p style="text-align: center; color: #555;">Please verify your email address to complete your registration.</p>
    <div style="text-align: center; margin: 30px 0;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #4a90e2; background: #e6f2ff; padding: 10px 20px; border-radius: 5px;">{{.Code}}</span>
    </div>
    <p style="text-align: center; color: #777; font-size: 14px;">This code expires in 10 minutes.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p style="text-align: center; color: #999; font-size: 12px;">If you didn't sign up for Zuva Network, please ignore this email.</p>
  </div>
</div>`))

// SendVerificationCode emails a one-time code. name may be empty.
func (m *Mailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	if m.sender == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderVerification(name, code)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", VerificationSubject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("verification email sent", "to", to)
	return nil
}

func renderVerification(name, code string) (string, error) {
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, struct{ Name, Code string }{name, code}); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
