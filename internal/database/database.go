// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package database is the DuckDB adapter for the similarity engine. It reads
// title metadata, stored embeddings, user preferences and watch history
// from tables maintained by the ingestion side; it never writes them.
//
// Expected tables:
//   - media_items(id, media_type, title, year, poster_url, genres, directors,
//     actors, collection, network, keywords, studios) with list columns as
//     JSON text. id is unique across media types; graph nodes are keyed
//     by it.
//   - embedding_models(id, is_active, dimensions, created_at)
//   - item_embeddings(item_id, media_type, model_id, embedding FLOAT[])
//   - user_similarity_preferences(user_id, full_franchise_mode, hide_watched)
//   - watch_history(user_id, item_id, media_type, watched_at)
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/config"
)

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger
}

// New opens the database described by cfg. The path ":memory:" opens an
// in-memory database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" && !cfg.ReadOnly {
		if dbDir := filepath.Dir(cfg.Path); dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	accessMode := "read_write"
	if cfg.ReadOnly {
		accessMode = "read_only"
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}
	connStr := fmt.Sprintf("%s?access_mode=%s&threads=%d&max_memory=%s",
		cfg.Path, accessMode, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(max(numThreads, 2))
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "database").Logger(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.logger.Info().Str("path", cfg.Path).Str("access_mode", accessMode).Int("threads", numThreads).Msg("database opened")
	return db, nil
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints a writable database and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if !db.cfg.ReadOnly && db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			db.logger.Warn().Err(err).Msg("checkpoint before close failed")
		}
		cancel()
	}
	err := db.conn.Close()
	db.conn = nil
	return err
}
