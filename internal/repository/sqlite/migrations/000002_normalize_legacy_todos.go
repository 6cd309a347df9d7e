package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func init() {
	RegisterGoMigration(2, Up_000002_normalize_legacy_todos, Down_000002_normalize_legacy_todos)
}

// TimestampLayout is the canonical stored form of created_at and completed_at:
// UTC RFC3339 with milliseconds, which sorts lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Up_000002_normalize_legacy_todos cleans rows written by the earlier server:
// blank due dates become NULL, blank or unknown enum values take their
// defaults, and timestamps are rewritten in TimestampLayout.
func Up_000002_normalize_legacy_todos(tx *sql.Tx) error {
	statements := []string{
		`UPDATE todos SET due_date = NULL WHERE due_date IS NOT NULL AND trim(due_date) = ''`,
		`UPDATE todos SET description = NULL WHERE description IS NOT NULL AND trim(description) = ''`,
		`UPDATE todos SET priority = 'medium' WHERE priority IS NULL OR priority NOT IN ('high', 'medium', 'low')`,
		`UPDATE todos SET group_name = 'personal' WHERE group_name IS NULL OR trim(group_name) = ''`,
		`UPDATE todos SET status = 'pending' WHERE status IS NULL OR status NOT IN ('pending', 'completed')`,
		`UPDATE todos SET created_at = NULL WHERE created_at IS NOT NULL AND trim(created_at) = ''`,
		`UPDATE todos SET completed_at = NULL WHERE completed_at IS NOT NULL AND trim(completed_at) = ''`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to normalize todos: %w", err)
		}
	}

	// Read all rows into memory first to avoid locking issues
	type row struct {
		id          string
		createdAt   sql.NullString
		completedAt sql.NullString
	}
	var todos []row

	rows, err := tx.Query("SELECT id, created_at, completed_at FROM todos")
	if err != nil {
		return fmt.Errorf("failed to query todos: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.createdAt, &r.completedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating todos: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE todos SET created_at = ?, completed_at = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare timestamp update statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range todos {
		created := normalizeTimestamp(r.createdAt)
		completed := normalizeTimestamp(r.completedAt)
		if created == r.createdAt && completed == r.completedAt {
			continue
		}
		if _, err := stmt.Exec(created, completed, r.id); err != nil {
			return fmt.Errorf("failed to update timestamps for todo %s: %w", r.id, err)
		}
	}
	return nil
}

// Down_000002_normalize_legacy_todos is a no-op: the cleanup is lossless for
// every value the application can read.
func Down_000002_normalize_legacy_todos(tx *sql.Tx) error {
	return nil
}

// normalizeTimestamp rewrites a parseable timestamp in TimestampLayout.
// Values it cannot parse are returned unchanged.
func normalizeTimestamp(v sql.NullString) sql.NullString {
	if !v.Valid {
		return v
	}
	t, err := ParseLegacyTime(v.String)
	if err != nil {
		return v
	}
	return sql.NullString{String: t.UTC().Format(TimestampLayout), Valid: true}
}

// ParseLegacyTime parses the timestamp shapes found in older databases:
// RFC3339 with or without fractions, space-separated SQL datetimes and Go's
// default time.Time String form.
func ParseLegacyTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " m="); idx != -1 {
		s = s[:idx]
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999 -0700",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse time format: %s", s)
}
