package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how dates are typed into forms.
const DateLayout = "2006-01-02"

// ValidateRequired rejects blank input for the named field.
func ValidateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// ValidateOptionalDate accepts an empty string or a YYYY-MM-DD date.
func ValidateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.ParseInLocation(DateLayout, s, time.Local); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// ValidateOptionalInt accepts an empty string or an integer in [lo, hi].
// hi <= 0 means no upper bound.
func ValidateOptionalInt(field string, lo, hi int) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if n < lo || (hi > 0 && n > hi) {
			if hi > 0 {
				return fmt.Errorf("%s must be between %d and %d", field, lo, hi)
			}
			return fmt.Errorf("%s must be at least %d", field, lo)
		}
		return nil
	}
}

// OptionalInt converts form text to *int; blank or invalid input is nil.
func OptionalInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// OptionalString converts form text to *string; blank input is nil.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// IntText renders an optional int for a form field.
func IntText(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// StringText renders an optional string for a form field.
func StringText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
