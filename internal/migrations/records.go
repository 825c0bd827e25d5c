package migrations

import "database/sql"

// InitRecordMigrations registers the schema a content-addressed record
// store needs: the records themselves keyed by Id, a secondary index
// mapping each record's derived Reference back to that Id, and a
// metadata table for small server-instance facts (see
// internal/serverid).
func InitRecordMigrations(runner *Runner) {
	runner.AddMigration(
		1,
		"Create records table",
		`CREATE TABLE records (
			id BLOB PRIMARY KEY,
			bytes BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)

	runner.AddMigration(
		2,
		"Create reference index",
		`CREATE TABLE refs (
			reference BLOB PRIMARY KEY,
			id BLOB NOT NULL REFERENCES records(id)
		)`,
	)

	runner.AddMigration(
		3,
		"Create metadata table",
		`CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)
}

// Bootstrap ensures the record store schema is present and up to date
// in db, which may be a fresh or an existing database.
func Bootstrap(db *sql.DB) error {
	runner := NewRunner(db)
	InitRecordMigrations(runner)
	return runner.Run()
}
