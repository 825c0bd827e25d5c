package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3" // Import SQLite driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	// Create a temporary database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "migrations_test.db")
	t.Logf("Test database path: %s", dbPath)

	// Open the database
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err, "Opening database failed")
	defer db.Close()

	// Create a migrations runner
	runner := NewRunner(db)

	// Add test migrations
	runner.AddMigration(1, "Create test table", `
		CREATE TABLE test_table (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)
	`)
	runner.AddMigration(2, "Add column to test table", `
		ALTER TABLE test_table ADD COLUMN description TEXT
	`)

	// Run migrations
	err = runner.Run()
	require.NoError(t, err, "Running migrations failed")

	// Verify migrations table exists and has entries
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count)
	require.NoError(t, err, "Counting migrations failed")
	assert.Equal(t, 2, count, "Expected 2 migrations to be recorded")

	// Verify test_table exists with the expected schema
	_, err = db.Exec("INSERT INTO test_table (id, name, description) VALUES (1, 'Test', 'Description')")
	require.NoError(t, err, "Inserting into test_table failed")

	// Test idempotence - running migrations again should not error
	err = runner.Run()
	require.NoError(t, err, "Re-running migrations failed")

	// Verify still only 2 migrations recorded
	err = db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count)
	require.NoError(t, err, "Counting migrations after re-run failed")
	assert.Equal(t, 2, count, "Expected still 2 migrations to be recorded")

	// Add a new migration and run again
	runner.AddMigration(3, "Add another column", `
		ALTER TABLE test_table ADD COLUMN created_at TIMESTAMP
	`)

	err = runner.Run()
	require.NoError(t, err, "Running with new migration failed")

	// Verify now 3 migrations recorded
	err = db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count)
	require.NoError(t, err, "Counting migrations after adding new one failed")
	assert.Equal(t, 3, count, "Expected 3 migrations to be recorded")

	// Verify the new column exists
	_, err = db.Exec("UPDATE test_table SET created_at = CURRENT_TIMESTAMP WHERE id = 1")
	require.NoError(t, err, "Updating with new column failed")
}

func TestBootstrapRecords(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "records_test.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err, "Opening database failed")
	defer db.Close()

	err = Bootstrap(db)
	require.NoError(t, err, "Bootstrapping record schema failed")

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	require.NoError(t, err, "Counting records failed")
	assert.Equal(t, 0, count, "Expected empty records table")

	id := []byte("0123456789012345678901234567890123456789012345")
	_, err = db.Exec("INSERT INTO records (id, bytes) VALUES (?, ?)", id, []byte("payload"))
	require.NoError(t, err, "Inserting a record failed")

	ref := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFGHIJKLMNOPQRSTUV")
	_, err = db.Exec("INSERT INTO refs (reference, id) VALUES (?, ?)", ref, id)
	require.NoError(t, err, "Inserting a reference failed")

	// Re-bootstrapping must be idempotent.
	err = Bootstrap(db)
	require.NoError(t, err, "Re-bootstrapping record schema failed")

	err = db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	require.NoError(t, err, "Counting records after re-bootstrap failed")
	assert.Equal(t, 1, count, "Expected the inserted record to survive re-bootstrap")
}
