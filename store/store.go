// Package store holds the relational persistence backends for GTFS rows:
// the read-only queries raptor.Source needs, plus a Writer used by package
// ingest to load a feed. Three backings are provided: SQLite and Postgres
// via database/sql, and an in-memory one for tests.
package store

import "github.com/SantaClaas/raptor-go/model"

// Store is the relational source the Assembler reads from, plus a Writer
// to populate it. It implements raptor.Source implicitly: raptor declares
// that interface at its own package boundary so this package never needs
// to import raptor.
type Store interface {
	StopIDs() ([]string, error)
	StopTimes() ([]model.StopTimeRow, error)
	Transfers() ([]model.TransferRow, error)

	// Writer opens a batch for loading a feed. Callers must call either
	// Commit or Rollback on the returned Writer.
	Writer() (Writer, error)

	Close() error
}

// Writer loads GTFS rows into a Store. Rows are not required to arrive
// sorted; Writer implementations persist them as given and leave ordering
// to the Store's read queries.
type Writer interface {
	WriteStop(id string) error
	WriteStopTime(row model.StopTimeRow) error
	WriteTransfer(row model.TransferRow) error

	Commit() error
	Rollback() error
}
