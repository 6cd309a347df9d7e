package migrations

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations_FreshDatabase(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)

	_, err := db.Exec(`INSERT INTO todos (id, title) VALUES ('a', 'x')`)
	require.NoError(t, err)

	var priority, group, status string
	require.NoError(t, db.QueryRow("SELECT priority, group_name, status FROM todos WHERE id = 'a'").Scan(&priority, &group, &status))
	assert.Equal(t, []string{"medium", "personal", "pending"}, []string{priority, group, status})
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestNormalizeLegacyTodos(t *testing.T) {
	db := openMemory(t)

	// A table as the earlier server created it, with rows it could write.
	_, err := db.Exec(`CREATE TABLE todos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT DEFAULT 'medium',
		group_name TEXT DEFAULT 'personal',
		status TEXT DEFAULT 'pending',
		due_date TEXT,
		created_at TEXT,
		completed_at TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO todos VALUES
		('a', 'Legacy', '', 'urgent', '', NULL, '', '2024-01-02T03:04:05.678Z', ''),
		('b', 'Go time', 'd', 'high', 'research', 'completed', '2024-02-01',
		 '2024-01-02 04:04:05.5 +0100 CET m=+0.001', '2024-01-03 10:00:00'),
		('c', 'Garbage', NULL, 'low', 'academic', 'pending', NULL, 'not a time', NULL)`)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	type result struct {
		description, priority, group, status sql.NullString
		due, created, completed             sql.NullString
	}
	read := func(id string) result {
		var r result
		require.NoError(t, db.QueryRow(`SELECT description, priority, group_name, status, due_date, created_at, completed_at
			FROM todos WHERE id = ?`, id).Scan(&r.description, &r.priority, &r.group, &r.status, &r.due, &r.created, &r.completed))
		return r
	}

	a := read("a")
	assert.False(t, a.description.Valid)
	assert.Equal(t, "medium", a.priority.String)
	assert.Equal(t, "personal", a.group.String)
	assert.Equal(t, "pending", a.status.String)
	assert.False(t, a.due.Valid)
	assert.Equal(t, "2024-01-02T03:04:05.678Z", a.created.String)
	assert.False(t, a.completed.Valid)

	b := read("b")
	assert.Equal(t, "2024-02-01", b.due.String)
	assert.Equal(t, "2024-01-02T03:04:05.500Z", b.created.String)
	assert.Equal(t, "2024-01-03T10:00:00.000Z", b.completed.String)

	c := read("c")
	assert.Equal(t, "not a time", c.created.String)
}

func TestRunMigrations_DirtyDatabase(t *testing.T) {
	db := openMemory(t)

	_, err := db.Exec(`
		CREATE TABLE migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			dirty BOOLEAN DEFAULT FALSE
		)
	`)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	require.NoError(t, err)

	err = RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is in a dirty state")
	assert.Contains(t, err.Error(), "failed migration(s): [1]")
}

func TestRunMigrations_FailureMarksDirty(t *testing.T) {
	db := openMemory(t)

	// A pre-existing todos table lacking the column the created_at index needs.
	_, err := db.Exec(`CREATE TABLE todos (id TEXT PRIMARY KEY, title TEXT NOT NULL)`)
	require.NoError(t, err)

	err = RunMigrations(db)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to apply migration 1"), err.Error())

	err = RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed migration(s): [1]")
}

func TestRollback(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	version, err := Rollback(db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	version, err = Rollback(db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'todos'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	version, err = Rollback(db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, RunMigrations(db))
}

func TestParseLegacyTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.123+02:00", time.Date(2024, 5, 1, 8, 0, 0, 123_000_000, time.UTC)},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLegacyTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %v", got)
		})
	}

	_, err := ParseLegacyTime("soon")
	assert.Error(t, err)
}
