package raptor

import "github.com/SantaClaas/raptor-go/model"

// ConnectionKind discriminates the two ways a stop can be reached within a
// round.
type ConnectionKind int

const (
	// ConnectionRide reaches a stop by riding a trip.
	ConnectionRide ConnectionKind = iota
	// ConnectionFootPath reaches a stop by walking a transfer.
	ConnectionFootPath
)

// Connection explains how a stop was first reached in some round. It is
// small and copyable, stored by value in each round's map.
type Connection struct {
	Kind ConnectionKind

	// Populated when Kind == ConnectionRide.
	Route      int
	TripNumber int
	BoardedAt  int
	ExitedAt   int

	// Populated when Kind == ConnectionFootPath.
	Source        int
	TransferIndex int
}

// Round maps a reached stop to the Connection that first reached it in
// that round's number of legs.
type Round map[int]Connection

// labels is the sparse set of stops whose arrival was newly set during one
// round: it holds exactly the improvements made in that round, not a
// cumulative best — the cumulative best lives in bestByStop.
type labels map[int]model.Time

func (l labels) get(stop int) model.Time {
	if t, ok := l[stop]; ok {
		return t
	}
	return model.Infinite
}

// boardedTrip is the in-progress trip a route scan is currently riding,
// together with where it was boarded.
type boardedTrip struct {
	number    int
	boardedAt int
	have      bool
}

// Query runs RAPTOR from source to target starting at departure, over the
// given flat-array model, per spec.md §4.2. It returns one Round per
// executed round, stopping as soon as a round marks no stops. If
// source == target, target pruning rejects every arrival that is not
// earlier than departure, so no stop is improved and it returns no rounds.
func Query(source, target int, departure model.Time, routes *model.RoutesData, stops *model.StopsData) []Round {
	// labelsByRound[k] holds only the stops newly improved in round k
	// (a sparse delta), per the reference algorithm. Round 0 is the
	// seed: just the source at departure.
	labelsByRound := []labels{{source: departure}}

	// bestByStop is the cumulative best arrival over any round, used
	// for local and target pruning.
	bestByStop := labels{source: departure}

	marked := map[int]bool{source: true}

	var rounds []Round

	for len(marked) > 0 {
		k := len(labelsByRound)
		previous := labelsByRound[k-1]
		current := labels{}
		connections := Round{}

		// Phase 1: build the route queue — for every route serving a
		// marked stop, keep only the earliest-in-route-order marked
		// stop it serves.
		queue := buildRouteQueue(marked, routes, stops)

		marked = map[int]bool{}

		// Phase 2: scan each queued route from its earliest marked stop.
		for route, boardStop := range queue {
			scanRoute(route, boardStop, routes, previous, bestByStop, target, current, connections, marked)
		}

		// Phase 3: foot-paths out of stops newly marked in phase 2. New
		// arrivals from walking are collected separately so they don't
		// themselves originate further walks this round.
		walked := map[int]bool{}
		for p := range marked {
			relaxFootPaths(p, stops, current, connections, walked)
		}
		for p := range walked {
			marked[p] = true
		}

		if len(connections) == 0 {
			break
		}

		labelsByRound = append(labelsByRound, current)
		rounds = append(rounds, connections)
	}

	return rounds
}

// buildRouteQueue accumulates, for every route serving a marked stop, the
// earliest-in-route-order marked stop it serves.
func buildRouteQueue(marked map[int]bool, routes *model.RoutesData, stops *model.StopsData) map[int]int {
	queue := map[int]int{}
	for p := range marked {
		for _, route := range stops.RoutesServing(p) {
			existing, ok := queue[route]
			if !ok {
				queue[route] = p
				continue
			}
			posP, _ := routes.StopPosition(route, p)
			posExisting, _ := routes.StopPosition(route, existing)
			if posP < posExisting {
				queue[route] = p
			}
		}
	}
	return queue
}

// scanRoute walks route's stop sequence starting at boardStop, relaxing
// arrivals for the trip currently being ridden and boarding an earlier
// trip whenever the previous round's label allows it.
func scanRoute(
	route int,
	boardStop int,
	routes *model.RoutesData,
	previous labels,
	bestByStop labels,
	target int,
	current labels,
	connections Round,
	marked map[int]bool,
) {
	sequence := routes.StopSequence(route)
	startPosition, _ := routes.StopPosition(route, boardStop)

	var trip boardedTrip

	for position := startPosition; position < len(sequence); position++ {
		stop := sequence[position]

		if trip.have {
			arrival := routes.Trip(route, trip.number)[position].Arrival
			bound := bestByStop.get(stop)
			if targetBound := bestByStop.get(target); targetBound.Less(bound) {
				bound = targetBound
			}
			if arrival.Less(bound) {
				current[stop] = arrival
				bestByStop[stop] = arrival
				connections[stop] = Connection{
					Kind:       ConnectionRide,
					Route:      route,
					TripNumber: trip.number,
					BoardedAt:  trip.boardedAt,
					ExitedAt:   stop,
				}
				marked[stop] = true
			}
		}

		previousArrival := previous.get(stop)
		currentTripArrival := model.Infinite
		if trip.have {
			currentTripArrival = routes.Trip(route, trip.number)[position].Arrival
		}
		if previousArrival.LessOrEqual(currentTripArrival) {
			if number, ok := routes.EarliestDepartingTrip(route, position, previousArrival); ok {
				trip = boardedTrip{number: number, boardedAt: stop, have: true}
			} else {
				trip = boardedTrip{}
			}
		}
	}
}

// relaxFootPaths walks the transfers out of p, relaxing current-round
// arrivals at each transfer's target. Newly improved stops are added to
// walked (not marked directly) so they do not originate a second,
// transitive round of walking within the same round.
func relaxFootPaths(p int, stops *model.StopsData, current labels, connections Round, walked map[int]bool) {
	arrival := current.get(p)
	for index, transfer := range stops.TransfersFrom(p) {
		byFoot := arrival.Add(transfer.WalkTime)
		if byFoot.Less(current.get(transfer.TargetStop)) {
			current[transfer.TargetStop] = byFoot
			connections[transfer.TargetStop] = Connection{
				Kind:          ConnectionFootPath,
				Source:        p,
				TransferIndex: index,
			}
			walked[transfer.TargetStop] = true
		}
	}
}
