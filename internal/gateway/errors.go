// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrNotFound          = errors.New("gateway: not found")
	ErrUnfiltered        = errors.New("gateway: update or delete without filter")
	ErrInvalidIdentifier = errors.New("gateway: invalid identifier")
	ErrEmptyRecord       = errors.New("gateway: empty record")
	ErrUnknownFunction   = errors.New("gateway: unknown function")
)

// Error is a structured failure reported by the data store.
type Error struct {
	Op      string
	Table   string
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway %s %s: %d %s: %s", e.Op, e.Table, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway %s %s: %d: %s", e.Op, e.Table, e.Status, e.Message)
}

// FunctionError reports that a function ran and answered with a non-2xx
// status. Transport failures are never FunctionErrors.
type FunctionError struct {
	Function string
	Status   int
	Message  string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s: %d: %s", e.Function, e.Status, e.Message)
}

// IsFunctionError reports whether err wraps a *FunctionError.
func IsFunctionError(err error) bool {
	var fe *FunctionError
	return errors.As(err, &fe)
}
