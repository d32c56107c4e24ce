// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package main provides the mediagraph CLI. It runs the similarity engine
// directly against a DuckDB file and prints JSON to stdout.
//
//	mediagraph similar movie m-alien --limit 5
//	mediagraph graph series s-expanse --depth 2 --user u-1
//	mediagraph search "slow burn space horror" --type movie --graph
//
// Configuration is read the same way the server reads it; a .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/mediagraph/internal/app"
	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/logging"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	ExitSuccess     = 0
	ExitError       = 1 // runtime failure
	ExitConfigError = 2 // bad configuration or arguments
	ExitNotFound    = 3 // requested item does not exist
)

var (
	dbPath    string
	logLevel  string
	readWrite bool
	compact   bool
)

var rootCmd = &cobra.Command{
	Use:   "mediagraph",
	Short: "Query media similarity graphs from the command line",
	Long: `mediagraph runs the similarity engine against a local DuckDB library.

All commands print JSON. Embedding and generation providers are configured
through the same environment variables and config.yaml as the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "DuckDB file (overrides DUCKDB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr")
	rootCmd.PersistentFlags().BoolVar(&readWrite, "read-write", false, "Open the database read-write")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "Print compact JSON")
	rootCmd.Version = Version
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// configError marks failures that happen before any query runs.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var cfgErr *configError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr), errors.Is(err, similarity.ErrInvalidRequest):
		return ExitConfigError
	case errors.Is(err, similarity.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}

// openApp loads configuration, applies the persistent flags and builds the
// engine. The caller closes the returned App.
func openApp() (*app.App, error) {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return nil, &configError{err}
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	cfg.Database.ReadOnly = !readWrite

	logging.Init(logging.Config{Level: logLevel, Format: "console", Output: os.Stderr, Timestamp: true})

	a, err := app.New(cfg, logging.Logger())
	if err != nil {
		return nil, &configError{err}
	}
	return a, nil
}

// withApp opens the app, runs fn and closes the app.
func withApp(fn func(a *app.App) (any, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing application")
		}
	}()

	out, err := fn(a)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, out, !compact)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// parseType converts a content type argument, accepting plural spellings.
func parseType(s string) (similarity.ContentType, error) {
	t, ok := similarity.ParseContentType(s)
	if !ok {
		return "", fmt.Errorf("content type %q must be movie or series: %w", s, similarity.ErrInvalidRequest)
	}
	return t, nil
}
