// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/mediagraph/internal/app"
)

var similarLimit int

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "l", 0, "Maximum number of neighbors (0 uses the configured default)")
}

var similarCmd = &cobra.Command{
	Use:   "similar <type> <id>",
	Short: "List the nearest neighbors of a title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		return withApp(func(a *app.App) (any, error) {
			return a.Engine.FindSimilar(cmd.Context(), args[1], t, similarLimit)
		})
	},
}
