// Package validation holds the field rules for registration and car listings.
// Rules are plain predicates executed by the flow handlers before any
// mutation; each failure keeps the {field, message} shape the forms expect.
package validation

import (
	"regexp"
	"time"

	"rentacar.com/internal/domain"
)

var (
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Year reports whether a car's production year is acceptable. A nil year is
// valid (not yet set); otherwise it must not be in the future. No lower bound.
func Year(year *int) bool {
	if year == nil {
		return true
	}
	return *year <= time.Now().Year()
}

// Required rejects empty values.
func Required(field, value string) *domain.FieldError {
	if value == "" {
		return &domain.FieldError{Field: field, Message: "This field is required"}
	}
	return nil
}

// MinLen rejects values shorter than n characters.
func MinLen(field, value string, n int, message string) *domain.FieldError {
	if len([]rune(value)) < n {
		return &domain.FieldError{Field: field, Message: message}
	}
	return nil
}

// TenDigits rejects values that are not exactly 10 numeric digits.
func TenDigits(field, value, label string) *domain.FieldError {
	if len(value) != 10 {
		return &domain.FieldError{Field: field, Message: label + " must be 10 symbols long."}
	}
	if !digitsOnly.MatchString(value) {
		return &domain.FieldError{Field: field, Message: label + " must contain only numbers."}
	}
	return nil
}

// EmailAddress rejects values without a plausible mailbox shape.
func EmailAddress(field, value string) *domain.FieldError {
	if !emailShape.MatchString(value) {
		return &domain.FieldError{Field: field, Message: "Invalid email address."}
	}
	return nil
}
