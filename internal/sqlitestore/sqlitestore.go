// Package sqlitestore implements mosaic.Store on top of SQLite,
// following the connection-opening conventions of the wider pack's
// sqlite-backed daemons: a busy timeout and foreign keys on by default,
// and native UNIQUE-constraint violations used to detect duplicate
// inserts instead of a separate existence check racing the insert.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"

	mosaic "github.com/mosaic-network/mosaic-server"
	"github.com/mosaic-network/mosaic-server/internal/migrations"
)

// Store is a SQLite-backed mosaic.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the record database at path and
// ensures its schema is up to date.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := migrations.Bootstrap(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap record schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for callers that also need to store
// server metadata (see internal/serverid) in the same database file.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// PutRecord inserts record, relying on the records table's primary key
// on id to make concurrent inserts of the same record race safely: the
// loser observes a UNIQUE constraint violation rather than silently
// overwriting, which is how it is told apart from the winner.
func (s *Store) PutRecord(ctx context.Context, record *mosaic.Record) (mosaic.PutResult, error) {
	id := record.ID()
	ref, err := record.Reference()
	if err != nil {
		return 0, fmt.Errorf("derive reference: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO records (id, bytes) VALUES (?, ?)", id[:], record.Bytes())
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
			return mosaic.PutResultDuplicate, nil
		}
		return 0, fmt.Errorf("insert record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO refs (reference, id) VALUES (?, ?)", ref[:], id[:]); err != nil {
		return 0, fmt.Errorf("insert reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record insert: %w", err)
	}
	return mosaic.PutResultInserted, nil
}

// HasRecord reports whether a record is stored under ref.
func (s *Store) HasRecord(ctx context.Context, ref mosaic.Reference) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM refs WHERE reference = ?)", ref[:]).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check record existence: %w", err)
	}
	return exists, nil
}

// GetRecord looks a record up by its derived Reference.
func (s *Store) GetRecord(ctx context.Context, ref mosaic.Reference) (*mosaic.Record, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT r.bytes FROM refs f JOIN records r ON r.id = f.id WHERE f.reference = ?",
		ref[:],
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query record by reference: %w", err)
	}
	rec, err := mosaic.RecordFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored record: %w", err)
	}
	return rec, nil
}
