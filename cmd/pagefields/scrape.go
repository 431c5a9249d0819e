package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/config"
	"github.com/use-agent/pagefields/engine"
	"github.com/use-agent/pagefields/extractor"
	"github.com/use-agent/pagefields/models"
)

func newScrapeCmd() *cobra.Command {
	var (
		req     models.DataRequest
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Extract fields from one page and print them as JSON",
		Example: `  pagefields scrape --url https://example.com \
    --fields '{"title":"h1","meta":["description"]}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("timeout") {
				cfg.Fetch.Timeout = timeout
			}
			initLogger(cfg.Log, os.Stderr)

			store, err := cache.Open(cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			x := extractor.New(store, engine.NewHTTPEngine(cfg.Fetch))
			return runScrape(cmd.Context(), x, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&req.URL, "url", "u", "", "page URL")
	cmd.Flags().StringVarP(&req.Fields, "fields", "f", "", `JSON field map, e.g. {"title":"h1","meta":["description"]}`)
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "fetch timeout")
	return cmd
}

// runScrape validates req exactly like the HTTP endpoint and writes the
// result as one line of JSON.
func runScrape(ctx context.Context, x *extractor.Extractor, req models.DataRequest, out io.Writer) error {
	fields, err := req.FieldMap()
	if err != nil {
		return err
	}

	result, err := x.Extract(ctx, req.URL, fields)
	if err != nil {
		return err
	}

	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
