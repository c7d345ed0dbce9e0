// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sqlgw implements gateway.Gateway on a database/sql connection.
// Functions are registered Go handlers executed in-process, with request
// and response passed through JSON exactly as the hosted backend would.
package sqlgw

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/store"
)

// sqliteTime is a fixed-width layout so text timestamps sort chronologically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// Function handles one function invocation. Returning a
// *gateway.FunctionError controls the reported status; any other error
// is reported as status 500.
type Function func(ctx context.Context, body json.RawMessage) (any, error)

// Gateway runs the gateway contract against a SQL database.
type Gateway struct {
	db      *sql.DB
	dialect store.Dialect
	now     func() time.Time

	mu    sync.RWMutex
	funcs map[string]Function
}

var _ gateway.Gateway = (*Gateway)(nil)

// New creates a gateway over db.
func New(db *sql.DB, dialect store.Dialect) *Gateway {
	return &Gateway{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		funcs:   make(map[string]Function),
	}
}

// Register makes fn callable as name.
func (g *Gateway) Register(name string, fn Function) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.funcs[name] = fn
}

// Select implements gateway.Tables.
func (g *Gateway) Select(ctx context.Context, table string, q gateway.Query, dest any) error {
	if err := gateway.CheckTable(table); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	where, args := g.where(q.Filters, 0)
	sb.WriteString(where)

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, o.Column+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	rows, err := g.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("sqlgw: select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRows(rows)
	if err != nil {
		return fmt.Errorf("sqlgw: select %s: %w", table, err)
	}

	// Round-trip through JSON so callers decode exactly as from the REST backend.
	buf, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("sqlgw: encoding %s rows: %w", table, err)
	}
	if err := json.Unmarshal(buf, dest); err != nil {
		return fmt.Errorf("sqlgw: decoding %s rows: %w", table, err)
	}
	return nil
}

// Insert implements gateway.Tables. Missing id and created_at columns
// are filled in the way the hosted backend's column defaults would.
func (g *Gateway) Insert(ctx context.Context, table string, rec gateway.Record) error {
	if err := gateway.CheckTable(table); err != nil {
		return err
	}
	if err := gateway.CheckRecord(rec); err != nil {
		return err
	}

	row := make(gateway.Record, len(rec)+2)
	for k, v := range rec {
		row[k] = v
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = g.now().UTC()
	}

	cols := sortedKeys(row)
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		marks[i] = g.dialect.Placeholder(i + 1)
		args[i] = g.bind(row[c])
	}

	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlgw: insert %s: %w", table, err)
	}
	return nil
}

// Update implements gateway.Tables.
func (g *Gateway) Update(ctx context.Context, table string, patch gateway.Record, match ...gateway.Filter) error {
	if err := gateway.CheckMutation(table, match...); err != nil {
		return err
	}
	if err := gateway.CheckRecord(patch); err != nil {
		return err
	}

	cols := sortedKeys(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(match))
	for i, c := range cols {
		sets[i] = c + " = " + g.dialect.Placeholder(i+1)
		args = append(args, g.bind(patch[c]))
	}
	where, whereArgs := g.where(match, len(cols))
	args = append(args, whereArgs...)

	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where
	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlgw: update %s: %w", table, err)
	}
	return nil
}

// Delete implements gateway.Tables.
func (g *Gateway) Delete(ctx context.Context, table string, match ...gateway.Filter) error {
	if err := gateway.CheckMutation(table, match...); err != nil {
		return err
	}
	where, args := g.where(match, 0)
	if _, err := g.db.ExecContext(ctx, "DELETE FROM "+table+where, args...); err != nil {
		return fmt.Errorf("sqlgw: delete %s: %w", table, err)
	}
	return nil
}

// Invoke implements gateway.Functions.
func (g *Gateway) Invoke(ctx context.Context, name string, body, out any) error {
	g.mu.RLock()
	fn, ok := g.funcs[name]
	g.mu.RUnlock()
	if !ok {
		return &gateway.FunctionError{Function: name, Status: http.StatusNotFound, Message: gateway.ErrUnknownFunction.Error()}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("sqlgw: encoding %s request: %w", name, err)
	}

	result, err := fn(ctx, raw)
	if err != nil {
		var fe *gateway.FunctionError
		if errors.As(err, &fe) {
			if fe.Function == "" {
				fe.Function = name
			}
			return fe
		}
		return &gateway.FunctionError{Function: name, Status: http.StatusInternalServerError, Message: err.Error()}
	}

	if out == nil || result == nil {
		return nil
	}
	buf, err := json.Marshal(result)
	if err != nil {
		return &gateway.FunctionError{Function: name, Status: http.StatusInternalServerError, Message: err.Error()}
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("sqlgw: decoding %s response: %w", name, err)
	}
	return nil
}

// Ping implements gateway.Gateway.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *Gateway) where(filters []gateway.Filter, offset int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if f.Value == nil {
			conds = append(conds, f.Column+" IS NULL")
			continue
		}
		args = append(args, g.bind(f.Value))
		conds = append(conds, f.Column+" = "+g.dialect.Placeholder(offset+len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// bind converts Go values into driver arguments.
func (g *Gateway) bind(v any) any {
	switch val := v.(type) {
	case time.Time:
		return g.bindTime(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return g.bindTime(*val)
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case string, bool, int, int64, float64, nil:
		return v
	}
	// Named string types such as model.Role bind as plain strings.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

func (g *Gateway) bindTime(t time.Time) any {
	if g.dialect == store.DialectSQLite {
		return t.UTC().Format(sqliteTime)
	}
	return t.UTC()
}

func sortedKeys(rec gateway.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
