package relay

import (
	"html"
	"regexp"
	"strings"
)

// Defense-in-depth ceilings. Wider than the validator's bounds on purpose:
// this layer must hold even if the validator is bypassed or its limits drift.
const (
	ceilingName    = 200
	ceilingEmail   = 320
	ceilingSubject = 500
	ceilingBody    = 5000
)

// Violation tags recorded for abuse analysis. Logged server-side only,
// never returned to the caller.
const (
	ViolationHeaderInjection = "header_injection"
	ViolationMarkup          = "markup_injection"
	ViolationControlChars    = "control_characters"
	ViolationOversize        = "oversize_field"
)

var markupPattern = regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed|style)\b|javascript:|on[a-z]+\s*=`)

// Verdict is the sanitizer's output: a safety flag, the violated rule
// tags, and escaped copies of the fields for downstream use.
type Verdict struct {
	Safe       bool
	Violations []string

	Name    string
	Email   string
	Subject string
	Body    string
}

type fields struct {
	name, email, subject, body string
}

// rules are evaluated in order and every match is collected, so the
// abuse log shows the full picture of a hostile payload.
var rules = []struct {
	tag   string
	match func(f fields) bool
}{
	{ViolationHeaderInjection, func(f fields) bool {
		// CR/LF in address or subject lines forges extra mail headers.
		return strings.ContainsAny(f.email, "\r\n") || strings.ContainsAny(f.subject, "\r\n")
	}},
	{ViolationMarkup, func(f fields) bool {
		return markupPattern.MatchString(f.name) ||
			markupPattern.MatchString(f.subject) ||
			markupPattern.MatchString(f.body)
	}},
	{ViolationControlChars, func(f fields) bool {
		return hasControlChars(f.name, false) ||
			hasControlChars(f.email, false) ||
			hasControlChars(f.subject, false) ||
			hasControlChars(f.body, true)
	}},
	{ViolationOversize, func(f fields) bool {
		return len(f.name) > ceilingName || len(f.email) > ceilingEmail ||
			len(f.subject) > ceilingSubject || len(f.body) > ceilingBody
	}},
}

// Inspect applies the safety rules to the four message fields. It is a
// second, independent layer behind Validate: even a syntactically valid
// payload is rejected here if it smells like header or markup injection.
func Inspect(name, email, subject, body string) Verdict {
	f := fields{
		name:    strings.TrimSpace(name),
		email:   strings.TrimSpace(email),
		subject: strings.TrimSpace(subject),
		body:    strings.TrimSpace(body),
	}

	var violations []string
	for _, r := range rules {
		if r.match(f) {
			violations = append(violations, r.tag)
		}
	}

	return Verdict{
		Safe:       len(violations) == 0,
		Violations: violations,
		Name:       html.EscapeString(f.name),
		Email:      f.email,
		Subject:    html.EscapeString(f.subject),
		Body:       html.EscapeString(f.body),
	}
}

// hasControlChars reports whether s contains control characters.
// Newlines and tabs are tolerated in the message body only.
func hasControlChars(s string, allowNewlines bool) bool {
	for _, r := range s {
		if r == 0x7f {
			return true
		}
		if r < 0x20 {
			if allowNewlines && (r == '\n' || r == '\r' || r == '\t') {
				continue
			}
			return true
		}
	}
	return false
}
