package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitcert/backend/internal/mail"
	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/ratelimit"
	"github.com/fitcert/backend/internal/relay"
	"github.com/fitcert/backend/internal/repository"
)

// Pipeline stages, in order. Used for logging so abuse analysis can see
// where a request died.
const (
	stageRateChecked       = "RATE_CHECKED"
	stageValidated         = "VALIDATED"
	stageSanitized         = "SANITIZED"
	stageRecipientResolved = "RECIPIENT_RESOLVED"
	stageDispatched        = "DISPATCHED"
)

// contactRelayServiceImpl is the production ContactRelayService.
type contactRelayServiceImpl struct {
	users   repository.UserRepository
	limiter *ratelimit.Limiter
	mailer  mail.Mailer
}

// NewContactRelayService wires the relay pipeline: limiter, validator,
// sanitizer, directory lookup, delivery.
func NewContactRelayService(users repository.UserRepository, limiter *ratelimit.Limiter, mailer mail.Mailer) ContactRelayService {
	return &contactRelayServiceImpl{users: users, limiter: limiter, mailer: mailer}
}

// Relay runs the stages strictly in order; the first failing stage ends the
// request and later stages are never evaluated.
func (s *contactRelayServiceImpl) Relay(ctx context.Context, clientKey string, input relay.RawContactInput) (*model.DispatchReceipt, error) {
	if d := s.limiter.Check(clientKey); !d.Allowed {
		slog.Warn("contact relay rejected",
			"stage", stageRateChecked,
			"client", clientKey,
			"retry_after_s", d.RetryAfterSeconds,
		)
		return nil, &RateLimitedError{RetryAfterSeconds: d.RetryAfterSeconds}
	}

	res := relay.Validate(input)
	if !res.IsValid {
		slog.Info("contact relay rejected",
			"stage", stageValidated,
			"client", clientKey,
			"fields", fieldNames(res.Errors),
		)
		return nil, &ValidationError{Fields: res.Errors}
	}

	verdict := relay.Inspect(res.Data.SenderName, res.Data.SenderEmail, res.Data.Subject, res.Data.Body)
	if !verdict.Safe {
		// Violated rules go to the abuse log with the caller identity;
		// the caller only ever sees a generic rejection.
		slog.Warn("contact relay rejected",
			"stage", stageSanitized,
			"client", clientKey,
			"violations", verdict.Violations,
		)
		return nil, &UnsafeContentError{Violations: verdict.Violations}
	}

	coach, err := s.resolveRecipient(ctx, res.Data.RecipientID)
	if err != nil {
		slog.Info("contact relay rejected",
			"stage", stageRecipientResolved,
			"client", clientKey,
			"recipient_id", res.Data.RecipientID,
			"error", err,
		)
		return nil, err
	}

	// One attempt, no retries. A failed delivery still consumed a
	// rate-limit slot; the caller may resend at the cost of another.
	msg := mail.Message{
		To:          coach.Email,
		ToName:      coach.Name,
		ReplyTo:     verdict.Email,
		ReplyToName: verdict.Name,
		Subject:     verdict.Subject,
		Body:        verdict.Body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The error may mention the coach's address; keep it server-side.
		slog.Error("contact relay delivery failed",
			"recipient_id", coach.ID,
			"error", err,
		)
		return nil, ErrDeliveryFailed
	}

	slog.Info("contact relay dispatched",
		"stage", stageDispatched,
		"recipient_id", coach.ID,
	)
	return &model.DispatchReceipt{
		RecipientName: coach.Name,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// resolveRecipient looks up the target and enforces eligibility. A missing
// id and an ineligible role produce the identical error so the directory
// cannot be enumerated through this endpoint. A coach without an address is
// a server-side configuration fault.
func (s *contactRelayServiceImpl) resolveRecipient(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}
	if !u.IsCoach() {
		return nil, ErrRecipientNotFound
	}
	if u.Email == "" {
		return nil, ErrRecipientMisconfigured
	}
	return u, nil
}

func fieldNames(errs map[string]string) []string {
	names := make([]string, 0, len(errs))
	for field := range errs {
		names = append(names, field)
	}
	return names
}
