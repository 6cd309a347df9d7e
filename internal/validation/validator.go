package validation

import (
	"strings"
	"unicode/utf8"

	"todo-manager/internal/domain"
)

// Limits bounds free-text fields.
type Limits struct {
	TitleMaxLength       int
	DescriptionMaxLength int
	GroupMaxLength       int
	IDMaxLength          int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		TitleMaxLength:       255,
		DescriptionMaxLength: 4000,
		GroupMaxLength:       64,
		IDMaxLength:          128,
	}
}

// Validator provides common validation utilities
type Validator struct {
	limits Limits
}

// NewValidator creates a new validator instance with default limits
func NewValidator() *Validator {
	return NewValidatorWithLimits(DefaultLimits())
}

// NewValidatorWithLimits creates a new validator instance with the given limits
func NewValidatorWithLimits(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// Limits returns the configured limits
func (v *Validator) Limits() Limits {
	return v.limits
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string's rune count is within the specified range.
// A max of zero means unbounded.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && (max <= 0 || length <= max)
}

// IsValidPriority checks a priority name
func (v *Validator) IsValidPriority(p domain.Priority) bool {
	return p.Valid()
}

// IsValidStatus checks a status name
func (v *Validator) IsValidStatus(s domain.Status) bool {
	return s.Valid()
}

// IsValidID checks that an id is printable and has no surrounding or inner whitespace
func (v *Validator) IsValidID(id string) bool {
	if id == "" || strings.ContainsAny(id, " \t\r\n/") {
		return false
	}
	return v.limits.IDMaxLength <= 0 || len(id) <= v.limits.IDMaxLength
}

// IsValidDateString checks a YYYY-MM-DD string
func (v *Validator) IsValidDateString(s string) bool {
	_, err := domain.ParseDate(s)
	return err == nil
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
