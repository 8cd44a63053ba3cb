package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/goliatone/go-memberportal/pkg/metadata"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)
)

// checkType runs the built-in format check for the descriptor's field type.
// Unknown types behave as STRING: anything goes.
func checkType(descriptor metadata.FieldDescriptor, value string) string {
	switch descriptor.Type {
	case metadata.FieldTypeEmail:
		if !emailPattern.MatchString(value) {
			return fmt.Sprintf("%s must be a valid email address", labelFor(descriptor))
		}
	case metadata.FieldTypePhone:
		if !phonePattern.MatchString(value) {
			return fmt.Sprintf("%s must be a valid phone number", labelFor(descriptor))
		}
	case metadata.FieldTypeDouble:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("%s must be a number", labelFor(descriptor))
		}
	case metadata.FieldTypeDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", labelFor(descriptor))
		}
	case metadata.FieldTypePicklist:
		if len(descriptor.Options) > 0 && !containsOption(descriptor.Options, value) {
			return fmt.Sprintf("%s must be one of the listed options", labelFor(descriptor))
		}
	}
	return ""
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// PasswordRule enforces the password-change constraints: 8 to 15 characters
// with at least one upper-case letter, one lower-case letter and one digit.
func PasswordRule() Rule {
	return func(value string) string {
		if len(value) < 8 || len(value) > 15 {
			return "Password must be between 8 and 15 characters"
		}
		var upper, lower, digit bool
		for _, r := range value {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		if !upper || !lower || !digit {
			return "Password must include upper-case, lower-case and numeric characters"
		}
		return ""
	}
}

// MaxLengthRule reports values longer than limit. Textarea inputs truncate at
// the input boundary instead; this rule is for call sites that prefer an
// inline message over silent truncation.
func MaxLengthRule(limit int) Rule {
	return func(value string) string {
		if limit > 0 && len([]rune(value)) > limit {
			return fmt.Sprintf("Must be %d characters or fewer", limit)
		}
		return ""
	}
}

// MatchRule reports values that differ from the expected value, used by the
// confirm-password flow.
func MatchRule(expected func() string, message string) Rule {
	return func(value string) string {
		if value != strings.TrimSpace(expected()) {
			return message
		}
		return ""
	}
}
