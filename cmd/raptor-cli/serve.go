package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SantaClaas/raptor-go/raptor"
	"github.com/SantaClaas/raptor-go/server"
	"github.com/SantaClaas/raptor-go/store"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves journey queries over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Path: dbPath})
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer s.Close()

	assembly, err := raptor.Assemble(s)
	if err != nil {
		return errors.Wrap(err, "assembling raptor data")
	}

	router := server.Router(server.NewHandler(assembly))
	cmd.Println("listening on", listenAddr)
	return http.ListenAndServe(listenAddr, router)
}
