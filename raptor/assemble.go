package raptor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/SantaClaas/raptor-go/model"
)

// Assemble builds the flat-array RAPTOR model from a Source, per spec.md
// §4.1. The four steps below (stops, route discovery, flattening,
// stop-routes packing) run in order; later steps rely on invariants the
// earlier ones establish.
func Assemble(source Source) (*model.Assembly, error) {
	indexByStopID, transfersByStop, err := assembleStops(source)
	if err != nil {
		return nil, err
	}

	routes, err := discoverRoutes(source, indexByStopID)
	if err != nil {
		return nil, err
	}

	routesData, stopsData, tripIDs := flatten(routes, indexByStopID, transfersByStop)

	return &model.Assembly{
		Routes:        routesData,
		Stops:         stopsData,
		TripIDs:       tripIDs,
		IndexByStopID: indexByStopID,
	}, nil
}

// Step A: assign a dense index to every stop id in encounter order, and
// group transfers by their source stop.
func assembleStops(source Source) (map[string]int, [][]model.Transfer, error) {
	stopIDs, err := source.StopIDs()
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing stop ids")
	}

	indexByStopID := make(map[string]int, len(stopIDs))
	for i, id := range stopIDs {
		indexByStopID[id] = i
	}

	transferRows, err := source.Transfers()
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing transfers")
	}

	transfersByStop := make([][]model.Transfer, len(stopIDs))
	for _, row := range transferRows {
		from, ok := indexByStopID[row.FromStopID]
		if !ok {
			return nil, nil, errors.Wrapf(ErrUnknownStopID, "transfer from unknown stop %q", row.FromStopID)
		}
		to, ok := indexByStopID[row.ToStopID]
		if !ok {
			return nil, nil, errors.Wrapf(ErrUnknownStopID, "transfer to unknown stop %q", row.ToStopID)
		}
		transfersByStop[from] = append(transfersByStop[from], model.Transfer{
			TargetStop: to,
			WalkTime:   row.MinTransferTime,
		})
	}

	return indexByStopID, transfersByStop, nil
}

// trip is one completed trip: its ordered stop times and its external id.
type trip struct {
	id        string
	stopTimes []model.StopTime
}

// routeAccum accumulates one discovered route (a unique stop-index
// sequence) while streaming stop_times.
type routeAccum struct {
	stopIndices []int
	trips       []trip
}

// Step B: stream stop_times ordered by (trip_id, departure_seconds),
// grouping rows into trips and trips into routes keyed by their stop-index
// sequence.
func discoverRoutes(source Source, indexByStopID map[string]int) ([]*routeAccum, error) {
	rows, err := source.StopTimes()
	if err != nil {
		return nil, errors.Wrap(err, "listing stop_times")
	}

	routesByKey := map[string]*routeAccum{}
	var keyOrder []string

	var currentTripID string
	var currentTrip trip
	var currentSeq []int
	var havePrevDeparture bool
	var prevDeparture model.Time
	seenTrips := map[string]bool{}

	flush := func() error {
		if currentTripID == "" {
			return nil
		}
		key := stopSequenceKey(currentSeq)
		acc, ok := routesByKey[key]
		if !ok {
			acc = &routeAccum{stopIndices: append([]int(nil), currentSeq...)}
			routesByKey[key] = acc
			keyOrder = append(keyOrder, key)
		}
		insertTripSorted(acc, currentTrip)
		seenTrips[currentTripID] = true
		return nil
	}

	for _, row := range rows {
		stopIndex, ok := indexByStopID[row.StopID]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownStopID, "stop_time references unknown stop %q", row.StopID)
		}

		if row.TripID != currentTripID {
			if err := flush(); err != nil {
				return nil, err
			}
			if seenTrips[row.TripID] {
				return nil, errors.Wrapf(ErrMissingOrdering, "trip %q is not contiguous in stop_times", row.TripID)
			}
			currentTripID = row.TripID
			currentTrip = trip{id: row.TripID}
			currentSeq = nil
			havePrevDeparture = false
		} else if havePrevDeparture && row.Departure.Less(prevDeparture) {
			return nil, errors.Wrapf(ErrMissingOrdering, "stop_times for trip %q not ordered by departure", row.TripID)
		}

		currentTrip.stopTimes = append(currentTrip.stopTimes, model.StopTime{
			Arrival:   row.Arrival,
			Departure: row.Departure,
		})
		currentSeq = append(currentSeq, stopIndex)
		prevDeparture = row.Departure
		havePrevDeparture = true
	}
	if err := flush(); err != nil {
		return nil, err
	}

	routes := make([]*routeAccum, 0, len(keyOrder))
	for _, key := range keyOrder {
		routes = append(routes, routesByKey[key])
	}
	return routes, nil
}

func stopSequenceKey(seq []int) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// insertTripSorted inserts t into acc.trips at the position that keeps the
// list sorted by the departure time of the trip's first stop, preserving
// the encounter order of ties (stable upper-bound insertion: a trip goes
// after every trip already listed with the same first departure).
func insertTripSorted(acc *routeAccum, t trip) {
	departure := t.stopTimes[0].Departure
	position := sort.Search(len(acc.trips), func(i int) bool {
		return departure.Less(acc.trips[i].stopTimes[0].Departure)
	})
	acc.trips = append(acc.trips, trip{})
	copy(acc.trips[position+1:], acc.trips[position:])
	acc.trips[position] = t
}

// Steps C & D: flatten the discovered routes (and their per-stop
// membership) into the packed RoutesData/StopsData arrays, plus the
// trip-id side table.
func flatten(
	routes []*routeAccum,
	indexByStopID map[string]int,
	transfersByStop [][]model.Transfer,
) (model.RoutesData, model.StopsData, []string) {
	numStops := len(indexByStopID)

	var routeStops []int
	var stopTimes []model.StopTime
	var tripIDs []string
	routeRecords := make([]model.Route, 0, len(routes))
	routesAtStop := make([][]int, numStops)

	for routeIndex, acc := range routes {
		routeStopsStart := len(routeStops)
		stopTimesStart := len(stopTimes)

		routeStops = append(routeStops, acc.stopIndices...)
		for _, stop := range acc.stopIndices {
			routesAtStop[stop] = append(routesAtStop[stop], routeIndex)
		}

		for _, t := range acc.trips {
			stopTimes = append(stopTimes, t.stopTimes...)
			tripIDs = append(tripIDs, t.id)
		}

		routeRecords = append(routeRecords, model.Route{
			NumberOfTrips:   len(acc.trips),
			NumberOfStops:   len(acc.stopIndices),
			RouteStopsStart: routeStopsStart,
			StopTimesStart:  stopTimesStart,
		})
	}

	// Step D: pack stop-routes and transfers in stop index order.
	var stopRoutes []int
	var transfers []model.Transfer
	stopRecords := make([]model.Stop, numStops)
	idByIndex := make([]string, numStops)
	for id, index := range indexByStopID {
		idByIndex[index] = id
	}

	for i := 0; i < numStops; i++ {
		stopRoutesStart := len(stopRoutes)
		stopRoutes = append(stopRoutes, routesAtStop[i]...)

		transfersStart := len(transfers)
		transfers = append(transfers, transfersByStop[i]...)

		stopRecords[i] = model.Stop{
			ID:              idByIndex[i],
			TransfersStart:  transfersStart,
			TransfersCount:  len(transfersByStop[i]),
			StopRoutesStart: stopRoutesStart,
			StopRoutesCount: len(routesAtStop[i]),
		}
	}

	return model.RoutesData{
			Routes:     routeRecords,
			RouteStops: routeStops,
			StopTimes:  stopTimes,
		}, model.StopsData{
			Stops:      stopRecords,
			Transfers:  transfers,
			StopRoutes: stopRoutes,
		}, tripIDs
}
