package store

import (
	"database/sql"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SantaClaas/raptor-go/model"
)

// SQLiteConfig chooses where a SQLiteStore keeps its database.
type SQLiteConfig struct {
	OnDisk bool
	Path   string
}

// SQLiteStore is a Store backed by database/sql over go-sqlite3.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) a SQLite-backed Store and
// ensures its schema exists.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	sourceName := ":memory:"
	if cfg.OnDisk {
		sourceName = cfg.Path
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS stops (
    id TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS stop_times (
    trip_id TEXT NOT NULL,
    stop_id TEXT NOT NULL,
    stop_sequence INTEGER NOT NULL,
    arrival_seconds INTEGER NOT NULL,
    departure_seconds INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS stop_times_trip_id ON stop_times (trip_id);
CREATE INDEX IF NOT EXISTS stop_times_departure_time ON stop_times (departure_seconds);
CREATE TABLE IF NOT EXISTS transfers (
    from_stop_id TEXT NOT NULL,
    to_stop_id TEXT NOT NULL,
    min_transfer_seconds INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS transfers_from_stop_id ON transfers (from_stop_id);
`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) StopIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM stops`)
	if err != nil {
		return nil, errors.Wrap(err, "querying stops")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning stop")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) StopTimes() ([]model.StopTimeRow, error) {
	rows, err := s.db.Query(`
SELECT trip_id, stop_id, stop_sequence, arrival_seconds, departure_seconds
FROM stop_times
ORDER BY trip_id, departure_seconds`)
	if err != nil {
		return nil, errors.Wrap(err, "querying stop_times")
	}
	defer rows.Close()

	var out []model.StopTimeRow
	for rows.Next() {
		var tripID, stopID string
		var sequence uint32
		var arrival, departure uint64
		if err := rows.Scan(&tripID, &stopID, &sequence, &arrival, &departure); err != nil {
			return nil, errors.Wrap(err, "scanning stop_time")
		}
		out = append(out, model.StopTimeRow{
			TripID:       tripID,
			StopID:       stopID,
			StopSequence: sequence,
			Arrival:      model.Finite(arrival),
			Departure:    model.Finite(departure),
		})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Transfers() ([]model.TransferRow, error) {
	rows, err := s.db.Query(`SELECT from_stop_id, to_stop_id, min_transfer_seconds FROM transfers`)
	if err != nil {
		return nil, errors.Wrap(err, "querying transfers")
	}
	defer rows.Close()

	var out []model.TransferRow
	for rows.Next() {
		var from, to string
		var minSeconds uint64
		if err := rows.Scan(&from, &to, &minSeconds); err != nil {
			return nil, errors.Wrap(err, "scanning transfer")
		}
		out = append(out, model.TransferRow{FromStopID: from, ToStopID: to, MinTransferTime: model.Finite(minSeconds)})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Writer() (Writer, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "beginning write transaction")
	}
	return &sqliteWriter{tx: tx}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteWriter batches a feed load inside one transaction; Commit or
// Rollback must be called exactly once.
type sqliteWriter struct {
	tx *sql.Tx
}

func (w *sqliteWriter) WriteStop(id string) error {
	_, err := w.tx.Exec(`INSERT OR IGNORE INTO stops (id) VALUES (?)`, id)
	return errors.Wrap(err, "inserting stop")
}

func (w *sqliteWriter) WriteStopTime(row model.StopTimeRow) error {
	arrival, ok := row.Arrival.Seconds()
	if !ok {
		return errors.Errorf("trip %s stop %s: arrival_time must be finite", row.TripID, row.StopID)
	}
	departure, ok := row.Departure.Seconds()
	if !ok {
		return errors.Errorf("trip %s stop %s: departure_time must be finite", row.TripID, row.StopID)
	}
	_, err := w.tx.Exec(`
INSERT INTO stop_times (trip_id, stop_id, stop_sequence, arrival_seconds, departure_seconds)
VALUES (?, ?, ?, ?, ?)`,
		row.TripID, row.StopID, row.StopSequence, arrival, departure)
	return errors.Wrap(err, "inserting stop_time")
}

func (w *sqliteWriter) WriteTransfer(row model.TransferRow) error {
	minSeconds, ok := row.MinTransferTime.Seconds()
	if !ok {
		return errors.Errorf("transfer %s->%s: min_transfer_time must be finite", row.FromStopID, row.ToStopID)
	}
	_, err := w.tx.Exec(`
INSERT INTO transfers (from_stop_id, to_stop_id, min_transfer_seconds)
VALUES (?, ?, ?)`,
		row.FromStopID, row.ToStopID, minSeconds)
	return errors.Wrap(err, "inserting transfer")
}

func (w *sqliteWriter) Commit() error   { return w.tx.Commit() }
func (w *sqliteWriter) Rollback() error { return w.tx.Rollback() }
