// Package mail sends outbound email for the contact relay. The rest of
// the system only sees the Mailer interface; the SMTP implementation is
// wired up in cmd/server.
package mail

import "context"

// Message is one outbound email. To carries the recipient's real address
// and must never be echoed back to the caller or written to logs.
type Message struct {
	To          string
	ToName      string
	ReplyTo     string
	ReplyToName string
	Subject     string
	Body        string
}

// Mailer delivers a single message. Implementations make exactly one
// attempt; retry policy belongs to the caller (and the relay has none).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
