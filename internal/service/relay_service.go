package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/relay"
)

// Relay failure taxonomy. Each value maps to exactly one HTTP status in the
// handler; anything else coming out of Relay is treated as an unexpected
// fault and surfaced as a generic 500.
var (
	// ErrRecipientNotFound covers both a missing id and an existing user who
	// is not an active coach. The two cases are deliberately indistinguishable
	// so callers cannot probe which ids belong to which roles.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrRecipientMisconfigured means the coach exists but has no deliverable
	// address. A server-side data problem, not the caller's fault.
	ErrRecipientMisconfigured = errors.New("recipient has no deliverable address")

	// ErrDeliveryFailed means the single delivery attempt did not complete.
	ErrDeliveryFailed = errors.New("message delivery failed")
)

// RateLimitedError rejects a sender who exhausted their window.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %ds", e.RetryAfterSeconds)
}

// ValidationError carries the complete per-field error set.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid contact request"
}

// UnsafeContentError holds the violated rule tags. The tags are for the
// abuse log only; the Error text is all a caller ever sees.
type UnsafeContentError struct {
	Violations []string
}

func (e *UnsafeContentError) Error() string {
	return "message rejected"
}

// ContactRelayService forwards a visitor's message to a coach without
// exposing the coach's address.
type ContactRelayService interface {
	// Relay runs the full accept/reject pipeline for one message.
	// clientKey identifies the sender for rate limiting, usually their IP.
	Relay(ctx context.Context, clientKey string, input relay.RawContactInput) (*model.DispatchReceipt, error)
}
