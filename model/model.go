// Package model holds the flat-array RAPTOR data model plus the GTFS
// row-level types used to get data into it. All cross-references between
// routes, stops and trips are plain integer indices into the packed slices
// below, never pointers: the whole model is then safe to share by read-only
// reference across concurrent queries.
package model

// StopTime is the arrival/departure pair of one trip at one stop.
type StopTime struct {
	Arrival   Time
	Departure Time
}

// Route is a maximal set of trips that all visit the same ordered sequence
// of stops. Its trips live in RoutesData.StopTimes, laid out trip-major:
// trip t's s-th stop time is at StopTimesStart + t*NumberOfStops + s.
type Route struct {
	NumberOfTrips   int
	NumberOfStops   int
	RouteStopsStart int
	StopTimesStart  int
}

// Stop is one GTFS stop, identified externally by ID and referenced
// internally by its dense index into StopsData.Stops.
type Stop struct {
	ID              string
	TransfersStart  int
	TransfersCount  int
	StopRoutesStart int
	StopRoutesCount int
}

// Transfer is a directed foot-edge out of some stop, stored grouped by
// source stop in StopsData.Transfers.
type Transfer struct {
	TargetStop int
	WalkTime   Time
}

// RoutesData is the packed route/trip/stop-time graph.
type RoutesData struct {
	Routes     []Route
	RouteStops []int
	StopTimes  []StopTime
}

// StopSequence returns the ordered stop indices visited by every trip of
// route r.
func (d *RoutesData) StopSequence(route int) []int {
	r := d.Routes[route]
	return d.RouteStops[r.RouteStopsStart : r.RouteStopsStart+r.NumberOfStops]
}

// StopPosition returns the position of stop within route's stop sequence,
// and whether it was found there at all.
func (d *RoutesData) StopPosition(route int, stop int) (int, bool) {
	for i, s := range d.StopSequence(route) {
		if s == stop {
			return i, true
		}
	}
	return 0, false
}

// Trip returns the stop-time block for the tripIndex-th trip of route, in
// stop-sequence order.
func (d *RoutesData) Trip(route int, tripIndex int) []StopTime {
	r := d.Routes[route]
	start := r.StopTimesStart + tripIndex*r.NumberOfStops
	return d.StopTimes[start : start+r.NumberOfStops]
}

// EarliestDepartingTrip scans route's trips in departure order (trips
// within a route are FIFO-sorted at assembly time) and returns the index
// of the first trip whose departure at the given stop position is
// strictly greater than after, plus true. If no such trip exists it
// returns (0, false).
func (d *RoutesData) EarliestDepartingTrip(route int, position int, after Time) (int, bool) {
	r := d.Routes[route]
	for trip := 0; trip < r.NumberOfTrips; trip++ {
		start := r.StopTimesStart + trip*r.NumberOfStops
		if after.Less(d.StopTimes[start+position].Departure) {
			return trip, true
		}
	}
	return 0, false
}

// StopsData is the packed stop/transfer/stop-routes graph.
type StopsData struct {
	Stops      []Stop
	Transfers  []Transfer
	StopRoutes []int
}

// RoutesServing returns the indices of every route whose stop sequence
// contains stop.
func (d *StopsData) RoutesServing(stop int) []int {
	s := d.Stops[stop]
	return d.StopRoutes[s.StopRoutesStart : s.StopRoutesStart+s.StopRoutesCount]
}

// TransfersFrom returns the foot-paths leaving stop.
func (d *StopsData) TransfersFrom(stop int) []Transfer {
	s := d.Stops[stop]
	return d.Transfers[s.TransfersStart : s.TransfersStart+s.TransfersCount]
}

// Assembly bundles everything the Assembler produces: the flat-array model
// the engine queries against, plus the side-tables (stop-id lookup, trip
// ids) needed outside the hot path for query construction and journey
// display.
type Assembly struct {
	Routes        RoutesData
	Stops         StopsData
	TripIDs       []string
	IndexByStopID map[string]int
}
