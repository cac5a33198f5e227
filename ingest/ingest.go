// Package ingest loads GTFS stops.txt, stop_times.txt and transfers.txt
// from a zipped feed into a store.Store. LoadZip is its only entry point;
// the per-file loaders are not exported.
package ingest

import (
	"archive/zip"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/SantaClaas/raptor-go/model"
	"github.com/SantaClaas/raptor-go/store"
)

// stopCSV mirrors the columns of stops.txt this module cares about; a real
// feed carries many more, which are ignored.
type stopCSV struct {
	ID string `csv:"stop_id"`
}

// stopTimeCSV mirrors stop_times.txt.
type stopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  uint32 `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

// transferCSV mirrors the optional transfers.txt.
type transferCSV struct {
	FromStopID      string `csv:"from_stop_id"`
	ToStopID        string `csv:"to_stop_id"`
	MinTransferTime string `csv:"min_transfer_time"`
}

func init() {
	// LazyCSVReader survives sloppy quoting; the BOM reader strips a
	// leading unicode BOM if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

// LoadZip reads stops.txt, stop_times.txt and the optional transfers.txt
// out of a zipped GTFS feed and writes their rows into s.
func LoadZip(s store.Store, data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrap(err, "unzipping feed")
	}

	files := map[string]io.ReadCloser{
		"stops.txt":      nil,
		"stop_times.txt": nil,
		"transfers.txt":  nil,
	}
	defer func() {
		for _, rc := range files {
			if rc != nil {
				rc.Close()
			}
		}
	}()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		parts := strings.Split(f.Name, "/")
		name := parts[len(parts)-1]
		if _, want := files[name]; !want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, "opening %s", f.Name)
		}
		files[name] = rc
	}

	for _, required := range []string{"stops.txt", "stop_times.txt"} {
		if files[required] == nil {
			return errors.Errorf("missing %s", required)
		}
	}

	writer, err := s.Writer()
	if err != nil {
		return errors.Wrap(err, "opening writer")
	}

	if err := loadStops(writer, files["stops.txt"]); err != nil {
		writer.Rollback()
		return err
	}
	if err := loadStopTimes(writer, files["stop_times.txt"]); err != nil {
		writer.Rollback()
		return err
	}
	if files["transfers.txt"] != nil {
		if err := loadTransfers(writer, files["transfers.txt"]); err != nil {
			writer.Rollback()
			return err
		}
	}

	return errors.Wrap(writer.Commit(), "committing feed")
}

func loadStops(writer store.Writer, data io.Reader) error {
	var rows []*stopCSV
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(err, "parsing stops.txt")
	}
	for _, row := range rows {
		if err := writer.WriteStop(row.ID); err != nil {
			return errors.Wrap(err, "writing stop")
		}
	}
	return nil
}

func loadStopTimes(writer store.Writer, data io.Reader) error {
	var rows []*stopTimeCSV
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(err, "parsing stop_times.txt")
	}
	for _, row := range rows {
		arrival, err := model.ParseTime(row.ArrivalTime)
		if err != nil {
			return errors.Wrapf(err, "trip %s stop %s arrival_time", row.TripID, row.StopID)
		}
		departure, err := model.ParseTime(row.DepartureTime)
		if err != nil {
			return errors.Wrapf(err, "trip %s stop %s departure_time", row.TripID, row.StopID)
		}
		if err := writer.WriteStopTime(model.StopTimeRow{
			TripID:       row.TripID,
			StopID:       row.StopID,
			StopSequence: row.StopSequence,
			Arrival:      arrival,
			Departure:    departure,
		}); err != nil {
			return errors.Wrap(err, "writing stop_time")
		}
	}
	return nil
}

// parseMinTransferTime parses transfers.txt's min_transfer_time, a plain
// count of seconds per the GTFS reference (not an H:MM:SS timestamp). A
// blank field means the feed states no minimum and is treated as zero.
func parseMinTransferTime(s string) (model.Time, error) {
	if strings.TrimSpace(s) == "" {
		return model.Finite(0), nil
	}
	seconds, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return model.Time{}, err
	}
	return model.Finite(seconds), nil
}

func loadTransfers(writer store.Writer, data io.Reader) error {
	var rows []*transferCSV
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(err, "parsing transfers.txt")
	}
	for _, row := range rows {
		minTime, err := parseMinTransferTime(row.MinTransferTime)
		if err != nil {
			return errors.Wrapf(model.ErrMalformedTime, "transfer %s->%s min_transfer_time %q: %s", row.FromStopID, row.ToStopID, row.MinTransferTime, err)
		}
		if err := writer.WriteTransfer(model.TransferRow{
			FromStopID:      row.FromStopID,
			ToStopID:        row.ToStopID,
			MinTransferTime: minTime,
		}); err != nil {
			return errors.Wrap(err, "writing transfer")
		}
	}
	return nil
}
