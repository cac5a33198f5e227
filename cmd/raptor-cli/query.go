package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SantaClaas/raptor-go/model"
	"github.com/SantaClaas/raptor-go/raptor"
	"github.com/SantaClaas/raptor-go/store"
)

var departureFlag string

var queryCmd = &cobra.Command{
	Use:   "query <from_stop_id> <to_stop_id>",
	Short: "Finds the earliest-arrival journey between two stops",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&departureFlag, "departure", "t", "0:00:00", "departure time, H:MM:SS")
}

func runQuery(cmd *cobra.Command, args []string) error {
	fromID, toID := args[0], args[1]

	departure, err := model.ParseTime(departureFlag)
	if err != nil {
		return errors.Wrap(err, "parsing departure time")
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Path: dbPath})
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer s.Close()

	assembly, err := raptor.Assemble(s)
	if err != nil {
		return errors.Wrap(err, "assembling raptor data")
	}

	from, ok := assembly.IndexByStopID[fromID]
	if !ok {
		return errors.Errorf("unknown stop id %q", fromID)
	}
	to, ok := assembly.IndexByStopID[toID]
	if !ok {
		return errors.Errorf("unknown stop id %q", toID)
	}

	rounds := raptor.Query(from, to, departure, &assembly.Routes, &assembly.Stops)
	journey, found := raptor.Reconstruct(rounds, assembly, from, to)
	if !found {
		cmd.Println("target unreachable")
		return nil
	}

	cmd.Printf("arrival: %s\n", journey.Arrival)
	for _, leg := range journey.Legs {
		fromStopID := assembly.Stops.Stops[leg.FromStop].ID
		toStopID := assembly.Stops.Stops[leg.ToStop].ID
		switch leg.Kind {
		case raptor.ConnectionRide:
			cmd.Printf("  ride %s: %s (%s) -> %s (%s)\n", leg.TripID, fromStopID, leg.Departure, toStopID, leg.Arrival)
		case raptor.ConnectionFootPath:
			cmd.Printf("  walk: %s -> %s (%s)\n", fromStopID, toStopID, leg.WalkTime)
		}
	}
	return nil
}
