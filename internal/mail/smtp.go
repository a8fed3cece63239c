package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTPConfig holds connection settings for the outbound relay host.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	// From is the envelope and header sender, e.g. no-reply@fitcert.example.
	From     string
	FromName string
}

// SMTPMailer sends mail over SMTP with STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg     SMTPConfig
	timeout time.Duration
}

// NewSMTPMailer creates an SMTPMailer. timeout bounds the whole delivery
// attempt, dial included, so a slow provider cannot pin request handlers.
func NewSMTPMailer(cfg SMTPConfig, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: timeout}
}

var _ Mailer = (*SMTPMailer)(nil)

// Send performs a single delivery attempt.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(m.render(msg)); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return c.Quit()
}

// render builds the RFC 5322 message. Header values are scrubbed of CR/LF
// as a final invariant even though the sanitizer rejects them upstream.
func (m *SMTPMailer) render(msg Message) []byte {
	var b strings.Builder
	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headerValue(value))
		b.WriteString("\r\n")
	}

	writeHeader("From", formatAddress(m.cfg.FromName, m.cfg.From))
	writeHeader("Reply-To", formatAddress(msg.ReplyToName, msg.ReplyTo))
	writeHeader("To", formatAddress(msg.ToName, msg.To))
	writeHeader("Subject", msg.Subject)
	writeHeader("Date", time.Now().UTC().Format(time.RFC1123Z))
	writeHeader("Message-ID", "<"+uuid.NewString()+"@"+m.messageIDDomain()+">")
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (m *SMTPMailer) messageIDDomain() string {
	if _, domain, ok := strings.Cut(m.cfg.From, "@"); ok && domain != "" {
		return domain
	}
	return m.cfg.Host
}

func formatAddress(name, addr string) string {
	name = headerValue(name)
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%q <%s>", name, addr)
}

func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
