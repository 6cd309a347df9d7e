package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	ts := time.Date(2024, 6, 1, 12, 30, 45, 123_456_789, loc)

	assert.Equal(t, "2024-06-01T10:30:45.123Z", FormatTimeForDB(ts))
	assert.Nil(t, FormatTimePtrForDB(nil))
	assert.Equal(t, "2024-06-01T10:30:45.123Z", FormatTimePtrForDB(&ts))
}

func TestFormatTimeForDB_SortsLexicographically(t *testing.T) {
	earlier := FormatTimeForDB(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	// 11:00+01:00 is 10:00 UTC, an hour after earlier
	later := FormatTimeForDB(time.Date(2024, 1, 1, 11, 0, 0, 0, time.FixedZone("X", 3600)))
	assert.Less(t, earlier, later)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", later)
}

func TestParseTimeFromDB(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{input: "2024-06-01T10:30:45.123Z", expected: time.Date(2024, 6, 1, 10, 30, 45, 123_000_000, time.UTC)},
		{input: "2024-06-01T12:30:45+02:00", expected: time.Date(2024, 6, 1, 10, 30, 45, 0, time.UTC)},
		{input: "2024-06-01 10:30:45", expected: time.Date(2024, 6, 1, 10, 30, 45, 0, time.UTC)},
		{input: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeFromDB(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNullableHelpers(t *testing.T) {
	assert.Nil(t, NullableString(""))
	assert.Equal(t, "x", NullableString("x"))

	empty := ""
	value := "2024-01-01"
	assert.Nil(t, NullableStringPtr(nil))
	assert.Nil(t, NullableStringPtr(&empty))
	assert.Equal(t, value, NullableStringPtr(&value))

	assert.Equal(t, "medium", StringOrDefault(sql.NullString{}, "medium"))
	assert.Equal(t, "medium", StringOrDefault(sql.NullString{Valid: true}, "medium"))
	assert.Equal(t, "high", StringOrDefault(sql.NullString{String: "high", Valid: true}, "medium"))
}
