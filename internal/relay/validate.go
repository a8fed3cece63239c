// Package relay holds the stateless leaf components of the coach-contact
// relay: syntactic validation and content safety inspection. Both run on
// every inbound message before anything touches the directory or the mailer.
package relay

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fitcert/backend/internal/model"
	"github.com/google/uuid"
)

// Field length bounds for the contact form.
const (
	MinNameLen    = 2
	MaxNameLen    = 100
	MaxEmailLen   = 254
	MinSubjectLen = 3
	MaxSubjectLen = 200
	MinBodyLen    = 10
	MaxBodyLen    = 2000
)

// Local part, @, domain with at least one dot. Deliberately simple; the
// sanitizer separately rejects control characters.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RawContactInput is the untrusted form data as decoded from the request.
type RawContactInput struct {
	RecipientID string
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
}

// ValidationResult aggregates every field error in one pass. Data is
// populated with trimmed values only when IsValid is true.
type ValidationResult struct {
	IsValid bool
	Errors  map[string]string
	Data    model.ContactRequest
}

// Validate checks all fields independently and reports every problem at
// once, so the caller sees the complete set in a single round trip.
func Validate(raw RawContactInput) ValidationResult {
	errs := make(map[string]string)

	name := strings.TrimSpace(raw.SenderName)
	if n := utf8.RuneCountInString(name); n < MinNameLen || n > MaxNameLen {
		errs["senderName"] = "name must be 2-100 characters"
	}

	email := strings.TrimSpace(raw.SenderEmail)
	if email == "" || len(email) > MaxEmailLen || !emailPattern.MatchString(email) {
		errs["email"] = "a valid email address is required"
	}

	subject := strings.TrimSpace(raw.Subject)
	if n := utf8.RuneCountInString(subject); n < MinSubjectLen || n > MaxSubjectLen {
		errs["subject"] = "subject must be 3-200 characters"
	}

	body := strings.TrimSpace(raw.Body)
	if n := utf8.RuneCountInString(body); n < MinBodyLen || n > MaxBodyLen {
		errs["message"] = "message must be 10-2000 characters"
	}

	// A malformed id is a validation error, not a lookup miss.
	recipientID := strings.TrimSpace(raw.RecipientID)
	if _, err := uuid.Parse(recipientID); err != nil {
		errs["recipientId"] = "recipient id is not valid"
	}

	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs}
	}
	return ValidationResult{
		IsValid: true,
		Errors:  map[string]string{},
		Data: model.ContactRequest{
			RecipientID: recipientID,
			SenderName:  name,
			SenderEmail: email,
			Subject:     subject,
			Body:        body,
		},
	}
}
