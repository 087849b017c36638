package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
)

// Notifier sends outbound notification mail. The contact handler
// treats every failure as non-fatal.
type Notifier interface {
	Enabled() bool
	Send(subject, body string) error
}

// Client is an SMTP-backed Notifier
type Client struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

// New creates a mail client from SMTP configuration
func New(cfg config.SMTPConfig, log zerolog.Logger) *Client {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Client{
		cfg: cfg,
		log: log.With().Str("component", "mail").Logger(),
	}
}

// Enabled reports whether an SMTP host is configured
func (c *Client) Enabled() bool {
	return c.cfg.Host != "" && c.cfg.To != ""
}

// Send delivers a plain-text message to the configured recipient
func (c *Client) Send(subject, body string) error {
	if !c.Enabled() {
		return fmt.Errorf("mail client is not configured")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	msg := c.buildMessage(subject, body)

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	if c.cfg.UseTLS {
		return c.sendTLS(addr, auth, msg)
	}
	return smtp.SendMail(addr, auth, c.cfg.From, []string{c.cfg.To}, msg)
}

// sendTLS speaks STARTTLS explicitly so certificate verification uses
// the configured host name
func (c *Client) sendTLS(addr string, auth smtp.Auth, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(c.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(c.cfg.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (c *Client) buildMessage(subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", c.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
