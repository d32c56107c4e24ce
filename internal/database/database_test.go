// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO connections from
// parallel tests can hang under CI resource pressure, so the slot is held
// for the whole test and released by t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

const testSchema = `
CREATE TABLE media_items (
	id VARCHAR NOT NULL,
	media_type VARCHAR NOT NULL,
	title VARCHAR NOT NULL,
	year INTEGER,
	poster_url VARCHAR,
	genres VARCHAR,
	directors VARCHAR,
	actors VARCHAR,
	collection VARCHAR,
	network VARCHAR,
	keywords VARCHAR,
	studios VARCHAR,
	PRIMARY KEY (id)
);
CREATE TABLE embedding_models (
	id VARCHAR PRIMARY KEY,
	is_active BOOLEAN NOT NULL DEFAULT false,
	dimensions INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE item_embeddings (
	item_id VARCHAR NOT NULL,
	media_type VARCHAR NOT NULL,
	model_id VARCHAR NOT NULL,
	embedding FLOAT[] NOT NULL
);
CREATE TABLE user_similarity_preferences (
	user_id VARCHAR PRIMARY KEY,
	full_franchise_mode BOOLEAN,
	hide_watched BOOLEAN
);
CREATE TABLE watch_history (
	user_id VARCHAR NOT NULL,
	item_id VARCHAR NOT NULL,
	media_type VARCHAR NOT NULL,
	watched_at TIMESTAMP NOT NULL
);`

const testSeed = `
INSERT INTO embedding_models VALUES
	('nomic-v1', false, 3, TIMESTAMP '2025-01-01 00:00:00'),
	('nomic-v2', true, 3, TIMESTAMP '2026-01-01 00:00:00');
INSERT INTO media_items VALUES
	('m-alien', 'movie', 'Alien', 1979, 'https://img/alien.jpg',
		'["Science Fiction","Horror"]', '["Ridley Scott"]',
		'[{"name":"Sigourney Weaver","role":"Ripley"}]',
		'Alien Collection', NULL, '["space"]', '["20th Century Fox"]'),
	('m-aliens', 'movie', 'Aliens', 1986, NULL,
		'["Science Fiction","Action"]', '["James Cameron"]',
		'[{"name":"Sigourney Weaver","role":"Ripley"}]',
		'Alien Collection', NULL, NULL, NULL),
	('m-heat', 'movie', 'Heat', NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL),
	('m-orphan', 'movie', 'Orphan', 2009, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL),
	('s-expanse', 'series', 'The Expanse', 2015, NULL, '["Science Fiction"]', NULL, NULL, NULL, 'Syfy', NULL, NULL);
INSERT INTO item_embeddings VALUES
	('m-alien', 'movie', 'nomic-v2', [1.0, 0.0, 0.0]),
	('m-aliens', 'movie', 'nomic-v2', [0.9, 0.1, 0.0]),
	('m-heat', 'movie', 'nomic-v2', [0.0, 1.0, 0.0]),
	('m-orphan', 'movie', 'nomic-v1', [1.0, 0.0, 0.0]),
	('s-expanse', 'series', 'nomic-v2', [1.0, 0.0, 0.0]);
INSERT INTO user_similarity_preferences VALUES
	('u-1', true, true),
	('u-2', NULL, true);
INSERT INTO watch_history VALUES
	('u-1', 'm-aliens', 'movie', TIMESTAMP '2026-02-01 20:00:00'),
	('u-1', 'm-aliens', 'movie', TIMESTAMP '2026-03-01 20:00:00'),
	('u-1', 's-expanse', 'series', TIMESTAMP '2026-02-02 20:00:00');`

// setupTestDB opens an in-memory database with the schema and, when seed is
// true, the fixture rows.
func setupTestDB(t *testing.T, seed bool) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := &config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg, zerolog.Nop())
		resultCh <- result{db: db, err: err}
	}()

	var db *DB
	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		db = res.db
	case <-time.After(60 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 60s")
	}
	t.Cleanup(func() { _ = db.Close() })

	execAll(t, db, testSchema)
	if seed {
		execAll(t, db, testSeed)
	}
	return db
}

// execAll runs each semicolon-terminated statement of script.
func execAll(t *testing.T, db *DB, script string) {
	t.Helper()
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Conn().ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("Failed to execute %q: %v", strings.TrimSpace(stmt)[:min(40, len(strings.TrimSpace(stmt)))], err)
		}
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	path := filepath.Join(t.TempDir(), "nested", "graph.duckdb")
	db, err := New(&config.DatabaseConfig{Path: path, Threads: 1}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := db.Ping(context.Background()); err == nil {
		t.Error("Ping() succeeded after Close()")
	}
}

func TestGetItem(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	item, err := db.GetItem(ctx, "m-alien", similarity.ContentTypeMovie)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if item.Title != "Alien" || item.Year == nil || *item.Year != 1979 {
		t.Errorf("GetItem() = %+v", item)
	}
	if len(item.Genres) != 2 || item.Genres[1] != "Horror" {
		t.Errorf("Genres = %v", item.Genres)
	}
	if len(item.Actors) != 1 || item.Actors[0].Role != "Ripley" {
		t.Errorf("Actors = %+v", item.Actors)
	}
	if len(item.Studios) != 1 || item.Studios[0].Name != "20th Century Fox" {
		t.Errorf("Studios = %+v", item.Studios)
	}
	if item.Collection != "Alien Collection" || item.PosterURL == "" {
		t.Errorf("Collection = %q, PosterURL = %q", item.Collection, item.PosterURL)
	}

	heat, err := db.GetItem(ctx, "m-heat", similarity.ContentTypeMovie)
	if err != nil {
		t.Fatalf("GetItem(heat) error = %v", err)
	}
	if heat.Year != nil || heat.Genres != nil || heat.Collection != "" {
		t.Errorf("GetItem(heat) with NULL columns = %+v", heat)
	}

	_, err = db.GetItem(ctx, "m-alien", similarity.ContentTypeSeries)
	if !errors.Is(err, similarity.ErrNotFound) {
		t.Errorf("GetItem(wrong type) error = %v, want ErrNotFound", err)
	}
}

func TestCountByCollection(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	tests := []struct {
		name       string
		collection string
		mediaType  similarity.ContentType
		want       int
	}{
		{"exact", "Alien Collection", similarity.ContentTypeMovie, 2},
		{"case insensitive", "alien collection", similarity.ContentTypeMovie, 2},
		{"other type", "Alien Collection", similarity.ContentTypeSeries, 0},
		{"unknown", "Heat Collection", similarity.ContentTypeMovie, 0},
	}
	for _, tt := range tests {
		got, err := db.CountByCollection(ctx, tt.collection, tt.mediaType)
		if err != nil {
			t.Fatalf("%s: CountByCollection() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: CountByCollection() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestActiveModel(t *testing.T) {
	ctx := context.Background()

	t.Run("newest active", func(t *testing.T) {
		db := setupTestDB(t, true)
		got, err := db.ActiveModel(ctx)
		if err != nil || got != "nomic-v2" {
			t.Errorf("ActiveModel() = %q, %v, want nomic-v2", got, err)
		}
	})

	t.Run("none active", func(t *testing.T) {
		db := setupTestDB(t, false)
		got, err := db.ActiveModel(ctx)
		if err != nil || got != "" {
			t.Errorf("ActiveModel() = %q, %v, want empty", got, err)
		}
	})
}

func TestNearestToItem(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	got, err := db.NearestToItem(ctx, "m-alien", similarity.ContentTypeMovie, "nomic-v2", 10)
	if err != nil {
		t.Fatalf("NearestToItem() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("NearestToItem() returned %d items, want 2: %+v", len(got), got)
	}
	if got[0].Item.ID != "m-aliens" || got[1].Item.ID != "m-heat" {
		t.Errorf("order = %s, %s", got[0].Item.ID, got[1].Item.ID)
	}
	if got[0].Similarity < 0.99 || got[1].Similarity > 0.01 {
		t.Errorf("similarities = %v, %v", got[0].Similarity, got[1].Similarity)
	}

	limited, err := db.NearestToItem(ctx, "m-alien", similarity.ContentTypeMovie, "nomic-v2", 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("NearestToItem(k=1) = %d items, %v", len(limited), err)
	}

	// m-orphan only has a vector under the inactive model.
	none, err := db.NearestToItem(ctx, "m-orphan", similarity.ContentTypeMovie, "nomic-v2", 10)
	if err != nil || len(none) != 0 {
		t.Errorf("NearestToItem(no vector) = %+v, %v, want empty", none, err)
	}
}

func TestNearestToVector(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	got, err := db.NearestToVector(ctx, []float32{0, 1, 0}, similarity.ContentTypeMovie, "nomic-v2", 2)
	if err != nil {
		t.Fatalf("NearestToVector() error = %v", err)
	}
	if len(got) != 2 || got[0].Item.ID != "m-heat" {
		t.Errorf("NearestToVector() = %+v", got)
	}

	series, err := db.NearestToVector(ctx, []float32{1, 0, 0}, similarity.ContentTypeSeries, "nomic-v2", 5)
	if err != nil || len(series) != 1 || series[0].Item.Network != "Syfy" {
		t.Errorf("NearestToVector(series) = %+v, %v", series, err)
	}

	empty, err := db.NearestToVector(ctx, nil, similarity.ContentTypeMovie, "nomic-v2", 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("NearestToVector(nil) = %+v, %v", empty, err)
	}
}

func TestPairSimilarity(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	alien := similarity.ItemRef{ID: "m-alien", Type: similarity.ContentTypeMovie}
	aliens := similarity.ItemRef{ID: "m-aliens", Type: similarity.ContentTypeMovie}
	orphan := similarity.ItemRef{ID: "m-orphan", Type: similarity.ContentTypeMovie}
	expanse := similarity.ItemRef{ID: "s-expanse", Type: similarity.ContentTypeSeries}

	sim, err := db.PairSimilarity(ctx, alien, aliens, "nomic-v2")
	if err != nil || sim < 0.99 {
		t.Errorf("PairSimilarity(alien, aliens) = %v, %v", sim, err)
	}

	sim, err = db.PairSimilarity(ctx, alien, expanse, "nomic-v2")
	if err != nil || sim < 0.999 {
		t.Errorf("PairSimilarity across types = %v, %v", sim, err)
	}

	if _, err := db.PairSimilarity(ctx, alien, orphan, "nomic-v2"); !errors.Is(err, similarity.ErrNoEmbedding) {
		t.Errorf("PairSimilarity(missing vector) error = %v, want ErrNoEmbedding", err)
	}
}

func TestPreferences(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	tests := []struct {
		user string
		want similarity.Preferences
	}{
		{"u-1", similarity.Preferences{FullFranchiseMode: true, HideWatched: true}},
		{"u-2", similarity.Preferences{HideWatched: true}},
		{"u-unknown", similarity.Preferences{}},
		{"", similarity.Preferences{}},
	}
	for _, tt := range tests {
		got, err := db.Preferences(ctx, tt.user)
		if err != nil {
			t.Fatalf("Preferences(%q) error = %v", tt.user, err)
		}
		if got != tt.want {
			t.Errorf("Preferences(%q) = %+v, want %+v", tt.user, got, tt.want)
		}
	}
}

func TestWatchedIDs(t *testing.T) {
	db := setupTestDB(t, true)
	ctx := context.Background()

	movies, err := db.WatchedIDs(ctx, "u-1", similarity.ContentTypeMovie)
	if err != nil {
		t.Fatalf("WatchedIDs() error = %v", err)
	}
	if len(movies) != 1 {
		t.Errorf("WatchedIDs(movie) = %v, want only m-aliens", movies)
	}
	if _, ok := movies["m-aliens"]; !ok {
		t.Errorf("WatchedIDs(movie) missing m-aliens: %v", movies)
	}

	none, err := db.WatchedIDs(ctx, "u-2", similarity.ContentTypeSeries)
	if err != nil || len(none) != 0 {
		t.Errorf("WatchedIDs(no history) = %v, %v", none, err)
	}
}

func TestVectorLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []float32
		want string
	}{
		{[]float32{}, "[]"},
		{[]float32{1}, "[1]"},
		{[]float32{1, 0.5, -2}, "[1, 0.5, -2]"},
	}
	for _, tt := range tests {
		if got := vectorLiteral(tt.in); got != tt.want {
			t.Errorf("vectorLiteral(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
