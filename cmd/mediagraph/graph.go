// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/mediagraph/internal/app"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

var (
	graphDepth int
	graphLimit int
	graphUser  string
)

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntVarP(&graphDepth, "depth", "d", 1, "Expansion depth")
	graphCmd.Flags().IntVarP(&graphLimit, "limit", "l", 0, "Neighbors per node (0 uses the configured default)")
	graphCmd.Flags().StringVarP(&graphUser, "user", "u", "", "Apply this user's preferences and watch history")
}

var graphCmd = &cobra.Command{
	Use:   "graph <type> <id>",
	Short: "Build a similarity graph around a title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		return withApp(func(a *app.App) (any, error) {
			ctx := cmd.Context()
			prefs, watched := a.Engine.UserContext(ctx, graphUser, t)
			return a.Engine.BuildGraph(ctx, similarity.GraphRequest{
				ItemID:      args[1],
				Type:        t,
				Depth:       graphDepth,
				Limit:       graphLimit,
				Preferences: prefs,
				Watched:     watched,
			})
		})
	},
}
