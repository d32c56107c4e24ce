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
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/mediagraph/internal/database/query"
	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

const (
	tableEmbeddings = "item_embeddings"
	tableModels     = "embedding_models"
)

// ActiveModel implements similarity.EmbeddingIndex. Newer models win when
// more than one is flagged active.
func (db *DB) ActiveModel(ctx context.Context) (string, error) {
	start := time.Now()
	var id string
	err := db.conn.QueryRowContext(ctx, `
		SELECT id FROM embedding_models
		WHERE is_active
		ORDER BY created_at DESC, id
		LIMIT 1`).Scan(&id)
	metrics.RecordDBQuery("active_model", tableModels, time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query active embedding model: %w", err)
	}
	return id, nil
}

// NearestToItem implements similarity.EmbeddingIndex. An item without a
// vector under model yields no rows.
func (db *DB) NearestToItem(ctx context.Context, id string, t similarity.ContentType, model string, k int) ([]similarity.ScoredItem, error) {
	if k <= 0 {
		return []similarity.ScoredItem{}, nil
	}
	where, args := query.NewWhereBuilder().
		AddClause("e.model_id = ?", model).
		AddClause("e.media_type = ?", string(t)).
		AddNotEqual("e.item_id", id).
		BuildWithPrefix()

	q := `
		WITH src AS (
			SELECT embedding FROM item_embeddings
			WHERE item_id = ? AND media_type = ? AND model_id = ?
			LIMIT 1
		)
		SELECT ` + itemColumns + `,
			CAST(list_cosine_similarity(e.embedding, src.embedding) AS DOUBLE) AS sim
		FROM item_embeddings e
		JOIN media_items m ON m.id = e.item_id AND m.media_type = e.media_type
		CROSS JOIN src
		` + where + `
		ORDER BY sim DESC NULLS LAST, m.id
		LIMIT ?`

	all := append([]any{id, string(t), model}, args...)
	all = append(all, k)
	return db.queryScored(ctx, "nearest_item", q, all...)
}

// NearestToVector implements similarity.EmbeddingIndex.
func (db *DB) NearestToVector(ctx context.Context, vec []float32, t similarity.ContentType, model string, k int) ([]similarity.ScoredItem, error) {
	if k <= 0 || len(vec) == 0 {
		return []similarity.ScoredItem{}, nil
	}
	where, args := query.NewWhereBuilder().
		AddClause("e.model_id = ?", model).
		AddClause("e.media_type = ?", string(t)).
		BuildWithPrefix()

	q := `
		SELECT ` + itemColumns + `,
			CAST(list_cosine_similarity(e.embedding, CAST(CAST(? AS VARCHAR) AS FLOAT[])) AS DOUBLE) AS sim
		FROM item_embeddings e
		JOIN media_items m ON m.id = e.item_id AND m.media_type = e.media_type
		` + where + `
		ORDER BY sim DESC NULLS LAST, m.id
		LIMIT ?`

	all := append([]any{vectorLiteral(vec)}, args...)
	all = append(all, k)
	return db.queryScored(ctx, "nearest_vector", q, all...)
}

// PairSimilarity implements similarity.EmbeddingIndex.
func (db *DB) PairSimilarity(ctx context.Context, a, b similarity.ItemRef, model string) (float64, error) {
	start := time.Now()
	var sim sql.NullFloat64
	err := db.conn.QueryRowContext(ctx, `
		SELECT CAST(list_cosine_similarity(ea.embedding, eb.embedding) AS DOUBLE)
		FROM item_embeddings ea, item_embeddings eb
		WHERE ea.item_id = ? AND ea.media_type = ? AND ea.model_id = ?
		  AND eb.item_id = ? AND eb.media_type = ? AND eb.model_id = ?
		LIMIT 1`,
		a.ID, string(a.Type), model, b.ID, string(b.Type), model,
	).Scan(&sim)
	metrics.RecordDBQuery("pair_similarity", tableEmbeddings, time.Since(start), ignoreNoRows(err))

	switch {
	case errors.Is(err, sql.ErrNoRows), err == nil && !sim.Valid:
		return 0, fmt.Errorf("%s/%s vs %s/%s: %w", a.Type, a.ID, b.Type, b.ID, similarity.ErrNoEmbedding)
	case err != nil:
		return 0, fmt.Errorf("failed to compare embeddings: %w", err)
	}
	return sim.Float64, nil
}

func (db *DB) queryScored(ctx context.Context, op, q string, args ...any) ([]similarity.ScoredItem, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.RecordDBQuery(op, tableEmbeddings, time.Since(start), err)
		return nil, fmt.Errorf("failed to query %s: %w", op, err)
	}
	defer closeQuietly(rows)

	results := []similarity.ScoredItem{}
	for rows.Next() {
		var sim sql.NullFloat64
		item, err := scanItem(rows, &sim)
		if err != nil {
			metrics.RecordDBQuery(op, tableEmbeddings, time.Since(start), err)
			return nil, fmt.Errorf("failed to scan %s row: %w", op, err)
		}
		if !sim.Valid {
			continue
		}
		results = append(results, similarity.ScoredItem{Item: item, Similarity: sim.Float64})
	}
	err = rows.Err()
	metrics.RecordDBQuery(op, tableEmbeddings, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", op, err)
	}
	return results, nil
}

// vectorLiteral renders vec in DuckDB list syntax for a FLOAT[] cast.
func vectorLiteral(vec []float32) string {
	var sb strings.Builder
	sb.Grow(len(vec) * 10)
	sb.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
