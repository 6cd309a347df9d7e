package sqlite

import (
	"database/sql"
	"time"

	"todo-manager/internal/repository/sqlite/migrations"
)

// FormatTimeForDB formats a time.Time as UTC RFC3339 with milliseconds, so
// stored timestamps sort lexicographically
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(migrations.TimestampLayout)
}

// FormatTimePtrForDB formats a *time.Time value, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses a stored timestamp. Legacy shapes are accepted too.
func ParseTimeFromDB(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := migrations.ParseLegacyTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// NullableString stores an empty string as NULL
func NullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// NullableStringPtr stores a nil or empty string pointer as NULL
func NullableStringPtr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return NullableString(*s)
}

// StringOrDefault reads a nullable column, substituting def for NULL or empty
func StringOrDefault(ns sql.NullString, def string) string {
	if !ns.Valid || ns.String == "" {
		return def
	}
	return ns.String
}
