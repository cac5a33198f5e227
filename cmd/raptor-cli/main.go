package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "raptor-cli",
	Short:        "RAPTOR transit routing tool",
	Long:         "Loads a GTFS feed and answers journey queries over it",
	SilenceUsage: true,
}

var (
	dbPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "", "raptor.db", "path to the SQLite database backing the feed")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
