package ingest_test

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaClaas/raptor-go/ingest"
	"github.com/SantaClaas/raptor-go/store"
)

func buildZip(t *testing.T, files map[string][]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, lines := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(lines, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoadZip(t *testing.T) {
	data := buildZip(t, map[string][]string{
		"stops.txt": {
			"stop_id",
			"A",
			"B",
			"C",
		},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
			"T1,A,1,8:00:00,8:00:00",
			"T1,B,2,8:10:00,8:10:00",
		},
		"transfers.txt": {
			"from_stop_id,to_stop_id,min_transfer_time",
			"B,C,180",
		},
	})

	s := store.NewMemoryStore()
	require.NoError(t, ingest.LoadZip(s, data))

	ids, err := s.StopIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, ids)

	stopTimes, err := s.StopTimes()
	require.NoError(t, err)
	require.Len(t, stopTimes, 2)

	transfers, err := s.Transfers()
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "B", transfers[0].FromStopID)
	seconds, ok := transfers[0].MinTransferTime.Seconds()
	require.True(t, ok)
	assert.Equal(t, uint64(180), seconds)
}

func TestLoadZipMalformedMinTransferTime(t *testing.T) {
	data := buildZip(t, map[string][]string{
		"stops.txt": {"stop_id", "A", "B"},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
			"T1,A,1,8:00:00,8:00:00",
			"T1,B,2,8:10:00,8:10:00",
		},
		"transfers.txt": {
			"from_stop_id,to_stop_id,min_transfer_time",
			"A,B,0:03:00",
		},
	})

	s := store.NewMemoryStore()
	require.Error(t, ingest.LoadZip(s, data))
}

func TestLoadZipBlankMinTransferTime(t *testing.T) {
	data := buildZip(t, map[string][]string{
		"stops.txt": {"stop_id", "A", "B"},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
			"T1,A,1,8:00:00,8:00:00",
			"T1,B,2,8:10:00,8:10:00",
		},
		"transfers.txt": {
			"from_stop_id,to_stop_id,min_transfer_time",
			"A,B,",
		},
	})

	s := store.NewMemoryStore()
	require.NoError(t, ingest.LoadZip(s, data))

	transfers, err := s.Transfers()
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	seconds, ok := transfers[0].MinTransferTime.Seconds()
	require.True(t, ok)
	assert.Equal(t, uint64(0), seconds)
}

func TestLoadZipMissingRequiredFile(t *testing.T) {
	data := buildZip(t, map[string][]string{
		"stops.txt": {"stop_id", "A"},
	})

	s := store.NewMemoryStore()
	err := ingest.LoadZip(s, data)
	require.Error(t, err)
}
