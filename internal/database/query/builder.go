// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package query provides SQL WHERE clause construction for the database package.
package query

import "strings"

// WhereBuilder constructs parameterized SQL WHERE clauses.
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("e.model_id = ?", model).AddIn("e.media_type", types)
//	where, args := wb.Build()
//	// e.model_id = ? AND e.media_type IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds "column IN (...)". An empty list adds nothing.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	wb.clauses = append(wb.clauses, column+" IN ("+placeholders+")")
	for _, v := range values {
		wb.args = append(wb.args, v)
	}
	return wb
}

// AddNotEqual adds "column <> ?" unless value is empty.
func (wb *WhereBuilder) AddNotEqual(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" <> ?", value)
}

// Build returns the conditions joined with AND, or "1=1" when empty.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", wb.args
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

// Count returns the number of conditions.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}
