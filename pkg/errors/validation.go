package errors

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation reasons. They double as translation keys under "errors."
// so the site can render a localized message per field.
const (
	ReasonRequired     = "required"
	ReasonTooLong      = "too_long"
	ReasonInvalidEmail = "invalid_email"
	ReasonInvalidURL   = "invalid_url"
	ReasonInvalidChars = "invalid_chars"
)

// MaxFieldLength bounds free-text form fields.
const MaxFieldLength = 200

// FieldError describes why a single form field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// FieldErrors collects every rejected field of one submission.
// A nil or empty FieldErrors means the input was valid.
type FieldErrors struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *FieldErrors) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return string(ErrCodeInvalidInput) + ": " + strings.Join(parts, ", ")
}

// Add records a rejected field. Only the first reason per field is kept.
func (e *FieldErrors) Add(field, reason string) {
	for _, f := range e.Fields {
		if f.Field == field {
			return
		}
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Reason returns the recorded reason for field, or "".
func (e *FieldErrors) Reason(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Reason
		}
	}
	return ""
}

// Err returns e as an error when at least one field was rejected, nil otherwise.
// Fields are sorted by name so responses are stable.
func (e *FieldErrors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	sort.Slice(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

// ValidateText checks a required free-text field and returns the reason it
// fails, or "" when it is acceptable. Leading and trailing space is ignored.
func ValidateText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ReasonRequired
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return ReasonTooLong
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return ReasonInvalidChars
		}
	}
	return ""
}

// ValidateEmail checks a required e-mail address.
// Display-name forms ("Ana <ana@example.com>") are rejected; the form
// field holds a bare address.
func ValidateEmail(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ReasonRequired
	}
	if len(value) > MaxFieldLength {
		return ReasonTooLong
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		return ReasonInvalidEmail
	}
	return ""
}

// ValidateURL validates an optional URL. An empty value is accepted;
// anything else must be an absolute http or https URL with a host.
func ValidateURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if len(rawURL) > 2048 {
		return ReasonTooLong
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ReasonInvalidURL
	}
	return ""
}

// ValidateEndpoint validates a configured outbound URL such as the form
// backend endpoint. Unlike ValidateURL it is required.
func ValidateEndpoint(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	if reason := ValidateURL(rawURL); reason != "" {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme: %q", rawURL)
	}
	return nil
}
