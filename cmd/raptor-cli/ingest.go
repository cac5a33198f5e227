package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SantaClaas/raptor-go/downloader"
	"github.com/SantaClaas/raptor-go/ingest"
	"github.com/SantaClaas/raptor-go/store"
)

var (
	feedURL     string
	feedHeaders []string
	cacheFile   string
	cacheTTL    time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [feed.zip]",
	Short: "Loads a zipped GTFS feed into the database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&feedURL, "url", "", "", "fetch the feed from this URL instead of a local file")
	ingestCmd.Flags().StringSliceVarP(&feedHeaders, "header", "", nil, "HTTP header to send when fetching --url, as key:value")
	ingestCmd.Flags().StringVarP(&cacheFile, "cache-file", "", "", "cache downloaded --url feeds in this file across runs")
	ingestCmd.Flags().DurationVarP(&cacheTTL, "cache-ttl", "", time.Hour, "how long a cached --url feed stays valid")
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := loadFeedBytes(cmd, args)
	if err != nil {
		return err
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Path: dbPath})
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer s.Close()

	if err := ingest.LoadZip(s, data); err != nil {
		return errors.Wrap(err, "loading feed")
	}

	cmd.Println("feed loaded into", dbPath)
	return nil
}

func loadFeedBytes(cmd *cobra.Command, args []string) ([]byte, error) {
	if feedURL != "" {
		headers, err := parseHeaders(feedHeaders)
		if err != nil {
			return nil, err
		}

		options := downloader.GetOptions{Cache: cacheFile != "", CacheTTL: cacheTTL}

		var get func() ([]byte, error)
		if cacheFile != "" {
			fs, err := downloader.NewFilesystem(cacheFile)
			if err != nil {
				return nil, errors.Wrap(err, "opening feed cache")
			}
			get = func() ([]byte, error) { return fs.Get(cmd.Context(), feedURL, headers, options) }
		} else {
			get = func() ([]byte, error) { return downloader.HTTPGet(cmd.Context(), feedURL, headers, options) }
		}

		data, err := get()
		return data, errors.Wrap(err, "downloading feed")
	}

	if len(args) != 1 {
		return nil, errors.New("either a feed.zip path or --url is required")
	}
	data, err := os.ReadFile(args[0])
	return data, errors.Wrap(err, "reading feed")
}

func parseHeaders(headers []string) (map[string]string, error) {
	parsed := map[string]string{}
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("%q is not on form <key>:<value>", header)
		}
		parsed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return parsed, nil
}
