// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

const (
	tablePreferences  = "user_similarity_preferences"
	tableWatchHistory = "watch_history"
)

// Preferences implements similarity.PreferenceStore.
func (db *DB) Preferences(ctx context.Context, userID string) (similarity.Preferences, error) {
	if userID == "" {
		return similarity.Preferences{}, nil
	}
	start := time.Now()
	var prefs similarity.Preferences
	err := db.conn.QueryRowContext(ctx, `
		SELECT COALESCE(full_franchise_mode, false), COALESCE(hide_watched, false)
		FROM user_similarity_preferences
		WHERE user_id = ?`, userID,
	).Scan(&prefs.FullFranchiseMode, &prefs.HideWatched)
	metrics.RecordDBQuery("preferences", tablePreferences, time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return similarity.Preferences{}, nil
	}
	if err != nil {
		return similarity.Preferences{}, fmt.Errorf("failed to query preferences for %s: %w", userID, err)
	}
	return prefs, nil
}

// WatchedIDs implements similarity.WatchedStore.
func (db *DB) WatchedIDs(ctx context.Context, userID string, t similarity.ContentType) (map[string]struct{}, error) {
	watched := map[string]struct{}{}
	if userID == "" {
		return watched, nil
	}
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT item_id FROM watch_history
		WHERE user_id = ? AND media_type = ?`, userID, string(t))
	if err != nil {
		metrics.RecordDBQuery("watched_ids", tableWatchHistory, time.Since(start), err)
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			metrics.RecordDBQuery("watched_ids", tableWatchHistory, time.Since(start), err)
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		watched[id] = struct{}{}
	}
	err = rows.Err()
	metrics.RecordDBQuery("watched_ids", tableWatchHistory, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate watch history: %w", err)
	}
	return watched, nil
}
