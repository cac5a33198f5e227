package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaClaas/raptor-go/model"
)

// fakeSource is an in-memory Source for assembler and engine tests. It
// returns its rows exactly in the order a test lists them, which lets
// tests feed rows a real store.Store would never produce.
type fakeSource struct {
	stopIDs   []string
	stopTimes []model.StopTimeRow
	transfers []model.TransferRow
}

func (f *fakeSource) StopIDs() ([]string, error)              { return f.stopIDs, nil }
func (f *fakeSource) StopTimes() ([]model.StopTimeRow, error) { return f.stopTimes, nil }
func (f *fakeSource) Transfers() ([]model.TransferRow, error) { return f.transfers, nil }

func t(hms string) model.Time {
	tm, err := model.ParseTime(hms)
	if err != nil {
		panic(err)
	}
	return tm
}

// direct ride: one route, A -> B -> C, a single trip.
func directRideSource() *fakeSource {
	return &fakeSource{
		stopIDs: []string{"A", "B", "C"},
		stopTimes: []model.StopTimeRow{
			{TripID: "T1", StopID: "A", StopSequence: 1, Arrival: t("8:00:00"), Departure: t("8:00:00")},
			{TripID: "T1", StopID: "B", StopSequence: 2, Arrival: t("8:10:00"), Departure: t("8:10:00")},
			{TripID: "T1", StopID: "C", StopSequence: 3, Arrival: t("8:20:00"), Departure: t("8:20:00")},
		},
	}
}

func TestAssembleDirectRide(t2 *testing.T) {
	assembly, err := Assemble(directRideSource())
	require.NoError(t2, err)

	require.Len(t2, assembly.Routes.Routes, 1)
	assert.Equal(t2, []int{0, 1, 2}, assembly.Routes.StopSequence(0))
	assert.Equal(t2, []string{"T1"}, assembly.TripIDs)
	assert.Equal(t2, 0, assembly.IndexByStopID["A"])
	assert.Equal(t2, 2, assembly.IndexByStopID["C"])
}

func TestAssembleUnknownStopInTransfer(t2 *testing.T) {
	source := directRideSource()
	source.transfers = []model.TransferRow{{FromStopID: "A", ToStopID: "Z", MinTransferTime: t("0:01:00")}}

	_, err := Assemble(source)
	require.Error(t2, err)
	assert.ErrorIs(t2, err, ErrUnknownStopID)
}

func TestAssembleUnknownStopInStopTimes(t2 *testing.T) {
	source := directRideSource()
	source.stopTimes = append(source.stopTimes, model.StopTimeRow{
		TripID: "T2", StopID: "ZZ", StopSequence: 1, Arrival: t("9:00:00"), Departure: t("9:00:00"),
	})

	_, err := Assemble(source)
	require.Error(t2, err)
	assert.ErrorIs(t2, err, ErrUnknownStopID)
}

func TestAssembleNonContiguousTrip(t2 *testing.T) {
	source := &fakeSource{
		stopIDs: []string{"A", "B"},
		stopTimes: []model.StopTimeRow{
			{TripID: "T1", StopID: "A", StopSequence: 1, Arrival: t("8:00:00"), Departure: t("8:00:00")},
			{TripID: "T2", StopID: "A", StopSequence: 1, Arrival: t("8:05:00"), Departure: t("8:05:00")},
			{TripID: "T1", StopID: "B", StopSequence: 2, Arrival: t("8:10:00"), Departure: t("8:10:00")},
		},
	}

	_, err := Assemble(source)
	require.Error(t2, err)
	assert.ErrorIs(t2, err, ErrMissingOrdering)
}

func TestAssembleOutOfOrderDeparture(t2 *testing.T) {
	source := &fakeSource{
		stopIDs: []string{"A", "B"},
		stopTimes: []model.StopTimeRow{
			{TripID: "T1", StopID: "A", StopSequence: 1, Arrival: t("8:10:00"), Departure: t("8:10:00")},
			{TripID: "T1", StopID: "B", StopSequence: 2, Arrival: t("8:00:00"), Departure: t("8:00:00")},
		},
	}

	_, err := Assemble(source)
	require.Error(t2, err)
	assert.ErrorIs(t2, err, ErrMissingOrdering)
}

// Two routes sharing stops but with distinct sequences must stay distinct
// routes; two trips with the same stop sequence must merge into one route,
// sorted by first-stop departure.
func TestAssembleRouteGroupingAndTripOrder(t2 *testing.T) {
	source := &fakeSource{
		stopIDs: []string{"A", "B", "C"},
		stopTimes: []model.StopTimeRow{
			// T2 departs later than T1 but is streamed first; it must
			// still sort after T1 within the merged route.
			{TripID: "T2", StopID: "A", StopSequence: 1, Arrival: t("9:00:00"), Departure: t("9:00:00")},
			{TripID: "T2", StopID: "B", StopSequence: 2, Arrival: t("9:10:00"), Departure: t("9:10:00")},
			{TripID: "T1", StopID: "A", StopSequence: 1, Arrival: t("8:00:00"), Departure: t("8:00:00")},
			{TripID: "T1", StopID: "B", StopSequence: 2, Arrival: t("8:10:00"), Departure: t("8:10:00")},
			// T3 skips B and goes straight to C: a distinct stop
			// sequence, hence a distinct route.
			{TripID: "T3", StopID: "A", StopSequence: 1, Arrival: t("10:00:00"), Departure: t("10:00:00")},
			{TripID: "T3", StopID: "C", StopSequence: 2, Arrival: t("10:05:00"), Departure: t("10:05:00")},
		},
	}

	assembly, err := Assemble(source)
	require.NoError(t2, err)
	require.Len(t2, assembly.Routes.Routes, 2)

	assert.Equal(t2, []int{0, 1}, assembly.Routes.StopSequence(0))
	assert.Equal(t2, []int{0, 2}, assembly.Routes.StopSequence(1))
	assert.Equal(t2, []string{"T1", "T2", "T3"}, assembly.TripIDs)

	trip0 := assembly.Routes.Trip(0, 0)
	assert.Equal(t2, t("8:00:00"), trip0[0].Departure)
	trip1 := assembly.Routes.Trip(0, 1)
	assert.Equal(t2, t("9:00:00"), trip1[0].Departure)
}
