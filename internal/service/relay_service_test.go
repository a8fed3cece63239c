package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fitcert/backend/internal/mail"
	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/ratelimit"
	"github.com/fitcert/backend/internal/relay"
	"github.com/fitcert/backend/internal/repository"
)

const (
	coachID   = "7b8accbb-4e0c-4f33-bd10-ecce303b9f1c"
	memberID  = "0f1e8cc1-9f0a-4c7b-93a2-5f6f3f2a9d11"
	missingID = "11111111-2222-3333-4444-555555555555"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
	lookups      int
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.lookups++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) ListCoaches(ctx context.Context, limit, offset int) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) Suspend(ctx context.Context, id string, suspend bool) error {
	return nil
}

type mockMailer struct {
	sendFunc func(ctx context.Context, msg mail.Message) error
	sent     []mail.Message
}

func (m *mockMailer) Send(ctx context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func coachFixture() *model.User {
	return &model.User{
		ID:    coachID,
		Email: "coach.kim@fitcert.example",
		Name:  "Coach Kim",
		Role:  model.RoleCoach,
	}
}

func directoryWith(users ...*model.User) *mockUserRepository {
	return &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, repository.ErrNotFound
		},
	}
}

func validRelayInput() relay.RawContactInput {
	return relay.RawContactInput{
		RecipientID: coachID,
		SenderName:  "Alice Jensen",
		SenderEmail: "alice@example.com",
		Subject:     "Training question",
		Body:        "Hi, I would like to ask about your strength program.",
	}
}

func newTestService(users repository.UserRepository, mailer mail.Mailer, maxRequests int) ContactRelayService {
	return NewContactRelayService(users, ratelimit.New(maxRequests, time.Hour), mailer)
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestRelay_HappyPath(t *testing.T) {
	mailer := &mockMailer{}
	svc := newTestService(directoryWith(coachFixture()), mailer, 5)

	receipt, err := svc.Relay(context.Background(), "203.0.113.7", validRelayInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.RecipientName != "Coach Kim" {
		t.Errorf("expected recipient name in receipt, got %q", receipt.RecipientName)
	}
	if receipt.Timestamp.IsZero() {
		t.Error("expected a timestamp on the receipt")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one delivery attempt, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "coach.kim@fitcert.example" {
		t.Errorf("expected mail addressed to the coach, got %q", msg.To)
	}
	if msg.ReplyTo != "alice@example.com" {
		t.Errorf("expected reply-to set to the sender, got %q", msg.ReplyTo)
	}
}

// ---------------------------------------------------------------------------
// Stage failures
// ---------------------------------------------------------------------------

func TestRelay_RateLimited(t *testing.T) {
	mailer := &mockMailer{}
	svc := newTestService(directoryWith(coachFixture()), mailer, 1)

	if _, err := svc.Relay(context.Background(), "client", validRelayInput()); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	_, err := svc.Relay(context.Background(), "client", validRelayInput())
	var rle *RateLimitedError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rle.RetryAfterSeconds <= 0 {
		t.Errorf("expected positive retry-after, got %d", rle.RetryAfterSeconds)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected no delivery for the limited request, got %d sends", len(mailer.sent))
	}
}

// TestRelay_ValidationStopsPipeline verifies invalid input never reaches
// the directory or the mailer.
func TestRelay_ValidationStopsPipeline(t *testing.T) {
	users := directoryWith(coachFixture())
	mailer := &mockMailer{}
	svc := newTestService(users, mailer, 5)

	_, err := svc.Relay(context.Background(), "client", relay.RawContactInput{
		RecipientID: "nope",
		SenderEmail: "not-an-email",
		Subject:     "ab",
		Body:        "short",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) < 4 {
		t.Errorf("expected the full field error set, got %v", ve.Fields)
	}
	if users.lookups != 0 {
		t.Errorf("expected no directory lookup for invalid input, got %d", users.lookups)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no delivery attempt, got %d", len(mailer.sent))
	}
}

func TestRelay_UnsafeContentStopsPipeline(t *testing.T) {
	users := directoryWith(coachFixture())
	mailer := &mockMailer{}
	svc := newTestService(users, mailer, 5)

	in := validRelayInput()
	in.Subject = "Hi\r\nBcc: attacker@evil.com"
	_, err := svc.Relay(context.Background(), "client", in)

	var ue *UnsafeContentError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnsafeContentError, got %v", err)
	}
	if len(ue.Violations) == 0 {
		t.Error("expected violation tags for the abuse log")
	}
	// The caller-visible message must not name the rule that fired.
	if strings.Contains(ue.Error(), relay.ViolationHeaderInjection) {
		t.Errorf("error text leaks the violated rule: %q", ue.Error())
	}
	if users.lookups != 0 {
		t.Errorf("expected no directory lookup for unsafe input, got %d", users.lookups)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no delivery attempt, got %d", len(mailer.sent))
	}
}

// ---------------------------------------------------------------------------
// Recipient resolution
// ---------------------------------------------------------------------------

// TestRelay_NotFoundAndIneligibleAreIdentical verifies a missing id and a
// non-coach id fail with the same error value, so roles cannot be probed.
func TestRelay_NotFoundAndIneligibleAreIdentical(t *testing.T) {
	member := &model.User{ID: memberID, Email: "m@example.com", Name: "Member", Role: model.RoleMember}
	svc := newTestService(directoryWith(coachFixture(), member), &mockMailer{}, 10)

	in := validRelayInput()
	in.RecipientID = missingID
	_, errMissing := svc.Relay(context.Background(), "client", in)

	in.RecipientID = memberID
	_, errIneligible := svc.Relay(context.Background(), "client", in)

	if !errors.Is(errMissing, ErrRecipientNotFound) {
		t.Errorf("missing id: expected ErrRecipientNotFound, got %v", errMissing)
	}
	if !errors.Is(errIneligible, ErrRecipientNotFound) {
		t.Errorf("ineligible role: expected ErrRecipientNotFound, got %v", errIneligible)
	}
	if errMissing.Error() != errIneligible.Error() {
		t.Errorf("expected indistinguishable errors, got %q vs %q", errMissing, errIneligible)
	}
}

func TestRelay_SuspendedCoachIsNotFound(t *testing.T) {
	now := time.Now()
	suspended := coachFixture()
	suspended.SuspendedAt = &now
	svc := newTestService(directoryWith(suspended), &mockMailer{}, 5)

	_, err := svc.Relay(context.Background(), "client", validRelayInput())
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("expected ErrRecipientNotFound for suspended coach, got %v", err)
	}
}

func TestRelay_CoachWithoutAddress(t *testing.T) {
	broken := coachFixture()
	broken.Email = ""
	svc := newTestService(directoryWith(broken), &mockMailer{}, 5)

	_, err := svc.Relay(context.Background(), "client", validRelayInput())
	if !errors.Is(err, ErrRecipientMisconfigured) {
		t.Errorf("expected ErrRecipientMisconfigured, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delivery
// ---------------------------------------------------------------------------

// TestRelay_DeliveryFailureIsFinal verifies exactly one attempt is made and
// that the failed attempt still consumed a rate-limit slot.
func TestRelay_DeliveryFailureIsFinal(t *testing.T) {
	mailer := &mockMailer{
		sendFunc: func(ctx context.Context, msg mail.Message) error {
			return errors.New("smtp: connection reset")
		},
	}
	svc := newTestService(directoryWith(coachFixture()), mailer, 1)

	_, err := svc.Relay(context.Background(), "client", validRelayInput())
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected exactly one delivery attempt, got %d", len(mailer.sent))
	}

	// The slot is gone even though delivery failed.
	_, err = svc.Relay(context.Background(), "client", validRelayInput())
	var rle *RateLimitedError
	if !errors.As(err, &rle) {
		t.Errorf("expected the failed attempt to have consumed a slot, got %v", err)
	}
}

func TestRelay_SanitizedFieldsReachTheMailer(t *testing.T) {
	mailer := &mockMailer{}
	svc := newTestService(directoryWith(coachFixture()), mailer, 5)

	in := validRelayInput()
	in.SenderName = "Tom & Jerry"
	if _, err := svc.Relay(context.Background(), "client", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mailer.sent[0].ReplyToName; got != "Tom &amp; Jerry" {
		t.Errorf("expected escaped sender name, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Privacy
// ---------------------------------------------------------------------------

// TestRelay_ErrorsNeverContainRecipientAddress sweeps every failure mode for
// the coach's address.
func TestRelay_ErrorsNeverContainRecipientAddress(t *testing.T) {
	const coachEmail = "coach.kim@fitcert.example"
	failing := &mockMailer{
		sendFunc: func(ctx context.Context, msg mail.Message) error {
			return errors.New("rcpt to " + coachEmail + " refused")
		},
	}
	svc := newTestService(directoryWith(coachFixture()), failing, 100)

	inputs := []relay.RawContactInput{
		validRelayInput(), // delivery failure path
		{RecipientID: "x"},
		func() relay.RawContactInput {
			in := validRelayInput()
			in.Subject = "Hi\r\nBcc: x@evil.com"
			return in
		}(),
		func() relay.RawContactInput {
			in := validRelayInput()
			in.RecipientID = missingID
			return in
		}(),
	}

	for i, in := range inputs {
		_, err := svc.Relay(context.Background(), "client", in)
		if err == nil {
			t.Fatalf("input %d: expected an error", i)
		}
		if strings.Contains(err.Error(), coachEmail) {
			t.Errorf("input %d: error leaks the recipient address: %q", i, err.Error())
		}
	}
}
