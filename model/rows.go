package model

// The types below are the relational rows the Assembler reads from a
// store.Store: the read-only GTFS tables spec.md §6 requires (stops,
// stop_times, transfers). They are intentionally flat and ID-addressed —
// unlike RoutesData/StopsData they are not yet index-addressed, since that
// indexing is exactly what the Assembler computes.

// StopTimeRow is one row of stop_times, ordered by (TripID, Departure) when
// read from a store.Store.
type StopTimeRow struct {
	TripID       string
	StopID       string
	StopSequence uint32
	Arrival      Time
	Departure    Time
}

// TransferRow is one row of the optional transfers table.
type TransferRow struct {
	FromStopID      string
	ToStopID        string
	MinTransferTime Time
}
