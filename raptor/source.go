package raptor

import "github.com/SantaClaas/raptor-go/model"

// Source is the read-only relational input the Assembler consumes
// (spec.md §6). Implementations live in package store; Source is declared
// here, at the consumer, so store need not import raptor.
type Source interface {
	// StopIDs returns every stop id, in a stable order. The order
	// becomes the dense stop index assigned by the Assembler.
	StopIDs() ([]string, error)

	// StopTimes returns every stop_times row ordered by
	// (TripID, Departure).
	StopTimes() ([]model.StopTimeRow, error)

	// Transfers returns every transfers row. A Source with no transfer
	// data may return an empty slice.
	Transfers() ([]model.TransferRow, error)
}
