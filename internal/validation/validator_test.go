package validation

import (
	"testing"

	"todo-manager/internal/domain"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		input    string
		expected bool
	}{
		{"hello", true},
		{"  hi  ", true},
		{"", false},
		{" \n\t", false},
	}
	for _, tt := range tests {
		if got := v.IsNonEmptyString(tt.input); got != tt.expected {
			t.Errorf("IsNonEmptyString(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidator_IsValidStringLength(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name     string
		input    string
		min, max int
		expected bool
	}{
		{"within range", "abc", 1, 5, true},
		{"too short", "", 1, 5, false},
		{"too long", "abcdef", 1, 5, false},
		{"unbounded max", "abcdefghij", 0, 0, true},
		{"counts runes", "héllo", 1, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValidStringLength(tt.input, tt.min, tt.max); got != tt.expected {
				t.Errorf("IsValidStringLength(%q, %d, %d) = %v, expected %v", tt.input, tt.min, tt.max, got, tt.expected)
			}
		})
	}
}

func TestValidator_IsValidID(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		input    string
		expected bool
	}{
		{"0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", true},
		{"lk3j2x9abc", true},
		{"", false},
		{"has space", false},
		{"a/b", false},
	}
	for _, tt := range tests {
		if got := v.IsValidID(tt.input); got != tt.expected {
			t.Errorf("IsValidID(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidator_Enums(t *testing.T) {
	v := NewValidator()
	if !v.IsValidPriority(domain.PriorityHigh) || v.IsValidPriority("urgent") {
		t.Error("IsValidPriority returned unexpected result")
	}
	if !v.IsValidStatus(domain.StatusCompleted) || v.IsValidStatus("") {
		t.Error("IsValidStatus returned unexpected result")
	}
}

func TestValidator_IsValidDateString(t *testing.T) {
	v := NewValidator()
	if !v.IsValidDateString("2024-02-29") {
		t.Error("expected leap day to be valid")
	}
	if v.IsValidDateString("2023-02-29") {
		t.Error("expected non-leap Feb 29 to be invalid")
	}
}
