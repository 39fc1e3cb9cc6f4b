// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends mail via SMTP.
package email

import (
	"context"
	"fmt"

	"codeberg.org/oliverandrich/mailsafe/internal/config"
	"github.com/wneessen/go-mail"
)

// Message is a fully addressed outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender accepts an addressed message and delivers it.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Disabled is a Sender for servers without SMTP configuration; every
// send fails.
type Disabled struct{}

// Send always fails.
func (Disabled) Send(context.Context, *Message) error {
	return fmt.Errorf("smtp not configured")
}

// SMTPSender delivers messages over SMTP using go-mail.
type SMTPSender struct {
	cfg *config.MailConfig
}

// NewSMTPSender creates a sender from the mail configuration.
func NewSMTPSender(cfg *config.MailConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers a single message.
func (s *SMTPSender) Send(ctx context.Context, message *Message) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	// Build client options
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	// Add authentication if credentials are provided
	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
