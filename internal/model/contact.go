package model

import "time"

// ContactRequest is a validated, sanitized message bound for a coach.
// It lives for the duration of a single relay call and is never persisted.
type ContactRequest struct {
	RecipientID string
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
}

// DispatchReceipt is what the caller gets back after a successful relay.
// It intentionally carries no contact details for the recipient.
type DispatchReceipt struct {
	RecipientName string    `json:"recipientName"`
	Timestamp     time.Time `json:"timestamp"`
}
