package store

import (
	"sort"

	"github.com/SantaClaas/raptor-go/model"
)

// MemoryStore is an in-process Store, useful for tests and for small feeds
// that fit comfortably in memory.
type MemoryStore struct {
	stopIDs   []string
	stopSeen  map[string]bool
	stopTimes []model.StopTimeRow
	transfers []model.TransferRow
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stopSeen: map[string]bool{}}
}

func (s *MemoryStore) StopIDs() ([]string, error) {
	out := append([]string(nil), s.stopIDs...)
	return out, nil
}

func (s *MemoryStore) StopTimes() ([]model.StopTimeRow, error) {
	rows := append([]model.StopTimeRow(nil), s.stopTimes...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TripID != rows[j].TripID {
			return rows[i].TripID < rows[j].TripID
		}
		return rows[i].Departure.Less(rows[j].Departure)
	})
	return rows, nil
}

func (s *MemoryStore) Transfers() ([]model.TransferRow, error) {
	out := append([]model.TransferRow(nil), s.transfers...)
	return out, nil
}

func (s *MemoryStore) Writer() (Writer, error) {
	return &memoryWriter{store: s}, nil
}

func (s *MemoryStore) Close() error { return nil }

// memoryWriter stages writes locally and only merges them into the owning
// MemoryStore on Commit, so a Rollback (or a writer simply discarded after
// an error) leaves the store exactly as it was before the batch started —
// matching the transactional contract sqliteWriter/postgresWriter give.
type memoryWriter struct {
	store *MemoryStore

	stopIDs   []string
	stopTimes []model.StopTimeRow
	transfers []model.TransferRow
}

func (w *memoryWriter) WriteStop(id string) error {
	w.stopIDs = append(w.stopIDs, id)
	return nil
}

func (w *memoryWriter) WriteStopTime(row model.StopTimeRow) error {
	w.stopTimes = append(w.stopTimes, row)
	return nil
}

func (w *memoryWriter) WriteTransfer(row model.TransferRow) error {
	w.transfers = append(w.transfers, row)
	return nil
}

func (w *memoryWriter) Commit() error {
	for _, id := range w.stopIDs {
		if w.store.stopSeen[id] {
			continue
		}
		w.store.stopSeen[id] = true
		w.store.stopIDs = append(w.store.stopIDs, id)
	}
	w.store.stopTimes = append(w.store.stopTimes, w.stopTimes...)
	w.store.transfers = append(w.store.transfers, w.transfers...)
	return nil
}

func (w *memoryWriter) Rollback() error { return nil }
