package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaClaas/raptor-go/model"
	"github.com/SantaClaas/raptor-go/raptor"
	"github.com/SantaClaas/raptor-go/server"
)

type fakeSource struct {
	stopIDs   []string
	stopTimes []model.StopTimeRow
	transfers []model.TransferRow
}

func (f *fakeSource) StopIDs() ([]string, error)              { return f.stopIDs, nil }
func (f *fakeSource) StopTimes() ([]model.StopTimeRow, error) { return f.stopTimes, nil }
func (f *fakeSource) Transfers() ([]model.TransferRow, error) { return f.transfers, nil }

func parseTime(t *testing.T, s string) model.Time {
	t.Helper()
	tm, err := model.ParseTime(s)
	require.NoError(t, err)
	return tm
}

func TestGetJourney(t *testing.T) {
	source := &fakeSource{
		stopIDs: []string{"A", "B", "C"},
		stopTimes: []model.StopTimeRow{
			{TripID: "T1", StopID: "A", StopSequence: 1, Arrival: parseTime(t, "8:00:00"), Departure: parseTime(t, "8:00:00")},
			{TripID: "T1", StopID: "B", StopSequence: 2, Arrival: parseTime(t, "8:10:00"), Departure: parseTime(t, "8:10:00")},
			{TripID: "T1", StopID: "C", StopSequence: 3, Arrival: parseTime(t, "8:20:00"), Departure: parseTime(t, "8:20:00")},
		},
	}
	assembly, err := raptor.Assemble(source)
	require.NoError(t, err)

	h := server.NewHandler(assembly)
	router := server.Router(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journey?from=A&to=C&departure=7:55:00", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Arrival string `json:"arrival"`
		Legs    []struct {
			Kind   string `json:"kind"`
			TripID string `json:"trip_id"`
		} `json:"legs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "8:20:00", body.Arrival)
	require.Len(t, body.Legs, 1)
	assert.Equal(t, "ride", body.Legs[0].Kind)
	assert.Equal(t, "T1", body.Legs[0].TripID)
}

func TestGetJourneyUnknownStop(t *testing.T) {
	source := &fakeSource{stopIDs: []string{"A"}}
	assembly, err := raptor.Assemble(source)
	require.NoError(t, err)

	router := server.Router(server.NewHandler(assembly))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journey?from=A&to=ZZ", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
