// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import "context"

// List selects rows of table into a slice of T.
func List[T any](ctx context.Context, t Tables, table string, q Query) ([]T, error) {
	var rows []T
	if err := t.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// First returns the first row matching filters, or ErrNotFound.
func First[T any](ctx context.Context, t Tables, table string, columns []string, filters ...Filter) (T, error) {
	var zero T
	rows, err := List[T](ctx, t, table, Query{Columns: columns, Filters: filters, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}
