package validation

import (
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// DateLayout is the only accepted calendar date format
	DateLayout = "2006-01-02"

	// TimePattern accepts HH:MM with an optional :SS
	TimePattern = `^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`

	EmailMaxLength = 255

	// bcrypt only reads the first 72 bytes of a password
	PasswordMinLength = 6
	PasswordMaxLength = 72

	NameMinLength = 1
	NameMaxLength = 150
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Time  *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Time:  regexp.MustCompile(TimePattern),
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks an already-normalized email
func IsValidEmail(email string) bool {
	return NewStringValidation(email).
		WithMaxLength(EmailMaxLength).
		WithPattern(CompiledPatterns.Email).
		Validate()
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValidTime checks an HH:MM[:SS] clock value
func IsValidTime(s string) bool {
	return CompiledPatterns.Time.MatchString(s)
}

// StringValidation is a small builder for string field checks
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := len([]rune(v.Value))
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}
