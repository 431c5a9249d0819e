package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/pagefields/config"
)

const appName = "pagefields"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Extract fields from web pages by CSS selector and meta tag name",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newScrapeCmd())
	return root
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig, w io.Writer) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
