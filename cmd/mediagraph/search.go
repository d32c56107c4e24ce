// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mediagraph/internal/app"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

var (
	searchType  string
	searchLimit int
	searchGraph bool
	searchAI    bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Restrict to movie or series")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of results (0 uses the configured default)")
	searchCmd.Flags().BoolVar(&searchGraph, "graph", false, "Connect the results into a graph")
	searchCmd.Flags().BoolVar(&searchAI, "ai", false, "Let the text generator propose graph edges (with --graph)")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Semantic search over the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := searchOptions(searchType, searchLimit)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")

		return withApp(func(a *app.App) (any, error) {
			if searchGraph {
				return a.Engine.SearchGraph(cmd.Context(), query, opts, similarity.SynthesisOptions{UseAI: searchAI})
			}
			return a.Engine.Search(cmd.Context(), query, opts)
		})
	},
}

func searchOptions(typeArg string, limit int) (similarity.SearchOptions, error) {
	opts := similarity.SearchOptions{Limit: limit}
	if typeArg == "" {
		return opts, nil
	}
	t, err := parseType(typeArg)
	if err != nil {
		return opts, err
	}
	opts.Types = []similarity.ContentType{t}
	return opts, nil
}
