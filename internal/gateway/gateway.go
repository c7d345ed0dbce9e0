// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gateway defines the data-access contract used by every
// service: tabular select/insert/update/delete against named tables plus
// invocation of named server-side functions.
//
// Two implementations exist: rest talks to a hosted PostgREST-compatible
// backend over HTTPS, and sqlgw runs the same contract against a local
// SQL database with the functions executed in-process.
package gateway

import (
	"context"
	"fmt"
	"regexp"
)

// Record is a row to insert or a patch to apply, keyed by column.
type Record map[string]any

// Filter is an equality match on one column.
type Filter struct {
	Column string
	Value  any
}

// Eq returns an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a select by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a select. Empty Columns selects all columns. A zero
// Limit means no limit.
type Query struct {
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Tables is tabular access to the data store.
type Tables interface {
	// Select decodes the matching rows into dest, which must be a pointer
	// to a slice of structs with json tags.
	Select(ctx context.Context, table string, q Query, dest any) error
	Insert(ctx context.Context, table string, rec Record) error
	// Update and Delete refuse to run without at least one filter.
	Update(ctx context.Context, table string, patch Record, match ...Filter) error
	Delete(ctx context.Context, table string, match ...Filter) error
}

// Functions invokes named server-side functions. body is encoded as
// JSON; the response is decoded into out when out is non-nil.
type Functions interface {
	Invoke(ctx context.Context, name string, body, out any) error
}

// Gateway is the full data-access surface.
type Gateway interface {
	Tables
	Functions
	Ping(ctx context.Context) error
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to use as a table or column name.
func ValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

var functionRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidFunctionName reports whether s is a well-formed function name.
func ValidFunctionName(s string) bool {
	return functionRe.MatchString(s)
}

// CheckTable validates a table name.
func CheckTable(table string) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	return nil
}

// Validate checks every identifier used by the query.
func (q Query) Validate() error {
	for _, c := range q.Columns {
		if !ValidIdentifier(c) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, c)
		}
	}
	if err := CheckFilters(q.Filters); err != nil {
		return err
	}
	for _, o := range q.Order {
		if !ValidIdentifier(o.Column) {
			return fmt.Errorf("%w: order column %q", ErrInvalidIdentifier, o.Column)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("gateway: negative limit %d", q.Limit)
	}
	return nil
}

// CheckFilters validates filter columns.
func CheckFilters(filters []Filter) error {
	for _, f := range filters {
		if !ValidIdentifier(f.Column) {
			return fmt.Errorf("%w: filter column %q", ErrInvalidIdentifier, f.Column)
		}
	}
	return nil
}

// CheckRecord validates record keys.
func CheckRecord(rec Record) error {
	if len(rec) == 0 {
		return ErrEmptyRecord
	}
	for k := range rec {
		if !ValidIdentifier(k) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, k)
		}
	}
	return nil
}

// CheckMutation validates the arguments of an update or delete.
func CheckMutation(table string, match ...Filter) error {
	if err := CheckTable(table); err != nil {
		return err
	}
	if len(match) == 0 {
		return ErrUnfiltered
	}
	return CheckFilters(match)
}
