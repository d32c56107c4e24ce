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

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediagraph/internal/database/query"
	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

const tableMediaItems = "media_items"

// itemColumns is the select list shared by every query returning items.
// Callers alias media_items as m.
const itemColumns = `m.id, m.media_type, m.title, m.year, m.poster_url,
	m.genres, m.directors, m.actors, m.collection, m.network, m.keywords, m.studios`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads itemColumns followed by any extra destinations.
func scanItem(row rowScanner, extra ...any) (similarity.Item, error) {
	var (
		item                                         similarity.Item
		mediaType                                    string
		year                                         sql.NullInt64
		poster, collection, network                  sql.NullString
		genres, directors, actors, keywords, studios sql.NullString
	)
	dest := append([]any{
		&item.ID, &mediaType, &item.Title, &year, &poster,
		&genres, &directors, &actors, &collection, &network, &keywords, &studios,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return similarity.Item{}, err
	}

	item.Type = similarity.ContentType(mediaType)
	if year.Valid {
		y := int(year.Int64)
		item.Year = &y
	}
	item.PosterURL = poster.String
	item.Collection = collection.String
	item.Network = network.String

	lists := []struct {
		col string
		src sql.NullString
		out any
	}{
		{"genres", genres, &item.Genres},
		{"directors", directors, &item.Directors},
		{"actors", actors, &item.Actors},
		{"keywords", keywords, &item.Keywords},
	}
	for _, l := range lists {
		if err := decodeList(l.src, l.out); err != nil {
			return similarity.Item{}, fmt.Errorf("item %s %s: %w", item.ID, l.col, err)
		}
	}

	var names []string
	if err := decodeList(studios, &names); err != nil {
		return similarity.Item{}, fmt.Errorf("item %s studios: %w", item.ID, err)
	}
	for _, n := range names {
		item.Studios = append(item.Studios, similarity.Studio{Name: n})
	}
	return item, nil
}

// decodeList unmarshals a JSON array column. NULL and empty text decode to nothing.
func decodeList(src sql.NullString, out any) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), out)
}

// GetItem implements similarity.MetadataStore.
func (db *DB) GetItem(ctx context.Context, id string, t similarity.ContentType) (*similarity.Item, error) {
	start := time.Now()
	wb := query.NewWhereBuilder().
		AddClause("m.id = ?", id).
		AddClause("m.media_type = ?", string(t))
	where, args := wb.BuildWithPrefix()

	row := db.conn.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM media_items m "+where, args...)
	item, err := scanItem(row)
	metrics.RecordDBQuery("get_item", tableMediaItems, time.Since(start), ignoreNoRows(err))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("%s %s", t, id))
	}
	return &item, nil
}

// CountByCollection implements similarity.MetadataStore. Names match
// case-insensitively.
func (db *DB) CountByCollection(ctx context.Context, name string, t similarity.ContentType) (int, error) {
	start := time.Now()
	where, args := query.NewWhereBuilder().
		AddClause("lower(m.collection) = lower(?)", name).
		AddClause("m.media_type = ?", string(t)).
		BuildWithPrefix()

	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM media_items m "+where, args...).Scan(&count)
	metrics.RecordDBQuery("count_collection", tableMediaItems, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %q: %w", name, err)
	}
	return count, nil
}

// ignoreNoRows keeps a missing row out of the error metrics.
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
