package mosaic

import "context"

// PutResult reports whether a PutRecord call actually inserted a new
// record or found one already present under the same Id.
type PutResult int

const (
	PutResultInserted PutResult = iota
	PutResultDuplicate
)

// Store is the capability a content-addressed backend must provide. It
// is a small, Send+Sync-equivalent interface (safe for concurrent use
// from many connection goroutines) so a handler can depend on the
// interface rather than a concrete backend.
type Store interface {
	// PutRecord persists record under its own Id, returning
	// PutResultDuplicate without error when an identical Id already
	// exists. Two concurrent calls for the same Id must not both
	// return Inserted.
	PutRecord(ctx context.Context, record *Record) (PutResult, error)

	// HasRecord reports whether a record is stored under the given
	// Reference (a record's own reference is record.Reference()).
	HasRecord(ctx context.Context, ref Reference) (bool, error)

	// GetRecord looks a record up by Reference, returning nil (no
	// error) when no record's derived Reference matches.
	GetRecord(ctx context.Context, ref Reference) (*Record, error)
}
