// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlgw

import (
	"database/sql"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// scanRows reads every row into a column-keyed map, normalizing driver
// values by declared column type.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = normalize(values[i], strings.ToUpper(types[i].DatabaseTypeName()))
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func normalize(v any, dbType string) any {
	switch val := v.(type) {
	case []byte:
		return normalize(string(val), dbType)
	case string:
		if isTimeType(dbType) {
			if t, ok := parseTime(val); ok {
				return t
			}
		}
		return val
	case int64:
		if dbType == "BOOLEAN" || dbType == "BOOL" {
			return val != 0
		}
		return val
	case time.Time:
		return val.UTC()
	default:
		return v
	}
}

func isTimeType(dbType string) bool {
	return strings.Contains(dbType, "DATE") || strings.Contains(dbType, "TIME")
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
