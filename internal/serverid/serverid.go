// Package serverid assigns each record store a persistent, random
// instance id, stored in its metadata table, for use in diagnostics and
// log correlation. It is never part of the wire protocol.
package serverid

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const (
	metadataTable = "metadata"
	serverIDKey   = "server_uuid"
)

// Get retrieves the store's instance id.
func Get(db *sql.DB) (string, error) {
	var id string
	err := db.QueryRow("SELECT value FROM metadata WHERE key = ?", serverIDKey).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("server id not found in metadata")
		}
		return "", fmt.Errorf("query server id: %w", err)
	}
	return id, nil
}

// Ensure returns the store's instance id, generating and persisting a
// new one the first time it's called against a given database.
func Ensure(db *sql.DB) (string, error) {
	if id, err := Get(db); err == nil {
		return id, nil
	}

	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
		serverIDKey, id,
	)
	if err != nil {
		return "", fmt.Errorf("store server id: %w", err)
	}
	return Get(db)
}
