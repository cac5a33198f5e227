package raptor

import "github.com/SantaClaas/raptor-go/model"

// Leg is one human-readable step of a reconstructed journey: either a ride
// on a trip from one stop to another, or a walked transfer.
type Leg struct {
	Kind ConnectionKind

	FromStop int
	ToStop   int

	// Populated when Kind == ConnectionRide.
	Route     int
	TripID    string
	Departure model.Time
	Arrival   model.Time

	// Populated when Kind == ConnectionFootPath.
	WalkTime model.Time
}

// Journey is a best arrival at target using exactly the rounds-th round's
// number of legs or fewer, expressed as an ordered walk of Legs from source
// to target.
type Journey struct {
	Arrival model.Time
	Legs    []Leg
}

// Reconstruct walks the rounds returned by Query backwards from target to
// recover the journey that achieves rounds[k]'s arrival there, per
// spec.md §4.3. It returns false if target was not reached within any of
// the given rounds.
func Reconstruct(rounds []Round, assembly *model.Assembly, source, target int) (Journey, bool) {
	if source == target {
		return Journey{Arrival: model.Finite(0)}, true
	}

	// Start from the last round in which target was reached. A ride
	// relaxes target only when it strictly beats the best arrival there
	// from every earlier round, so a later round's ride into target
	// arrives earlier; a foot-path into target is compared only against
	// its own round's label.
	roundIndex := -1
	for k := len(rounds) - 1; k >= 0; k-- {
		if _, ok := rounds[k][target]; ok {
			roundIndex = k
			break
		}
	}
	if roundIndex == -1 {
		return Journey{}, false
	}

	// Walk backward from target. Within one round, a ride and a
	// foot-path can chain (the foot-path relaxes stops the ride just
	// marked), so the same round k must be re-consulted for the new
	// stop before falling back to an earlier round.
	var legs []Leg
	stop := target
	for k := roundIndex; k >= 0 && stop != source; {
		conn, ok := rounds[k][stop]
		if !ok {
			k--
			continue
		}

		leg := Leg{Kind: conn.Kind, ToStop: stop}
		switch conn.Kind {
		case ConnectionRide:
			leg.FromStop = conn.BoardedAt
			leg.Route = conn.Route
			tripStart := assembly.Routes.Routes[conn.Route].StopTimesStart +
				conn.TripNumber*assembly.Routes.Routes[conn.Route].NumberOfStops
			boardPosition, _ := assembly.Routes.StopPosition(conn.Route, conn.BoardedAt)
			exitPosition, _ := assembly.Routes.StopPosition(conn.Route, conn.ExitedAt)
			leg.Departure = assembly.Routes.StopTimes[tripStart+boardPosition].Departure
			leg.Arrival = assembly.Routes.StopTimes[tripStart+exitPosition].Arrival
			leg.TripID = tripIDFor(assembly, conn.Route, conn.TripNumber)
			stop = conn.BoardedAt
		case ConnectionFootPath:
			leg.FromStop = conn.Source
			transfer := assembly.Stops.TransfersFrom(conn.Source)[conn.TransferIndex]
			leg.WalkTime = transfer.WalkTime
			stop = conn.Source
		}
		legs = append([]Leg{leg}, legs...)
	}

	arrival := model.Infinite
	if len(legs) > 0 {
		arrival = legArrival(legs, len(legs)-1)
	}

	return Journey{Arrival: arrival, Legs: legs}, true
}

// legArrival computes the arrival time at the end of legs[i] by walking
// forward from the journey's first leg, accumulating ride arrivals and
// walk times.
func legArrival(legs []Leg, i int) model.Time {
	var t model.Time
	for j := 0; j <= i; j++ {
		switch legs[j].Kind {
		case ConnectionRide:
			t = legs[j].Arrival
		case ConnectionFootPath:
			t = t.Add(legs[j].WalkTime)
		}
	}
	return t
}

func tripIDFor(assembly *model.Assembly, route, tripNumber int) string {
	index := 0
	for ri := 0; ri < route; ri++ {
		index += assembly.Routes.Routes[ri].NumberOfTrips
	}
	index += tripNumber
	if index < 0 || index >= len(assembly.TripIDs) {
		return ""
	}
	return assembly.TripIDs[index]
}
