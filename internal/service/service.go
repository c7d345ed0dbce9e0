// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the content managers behind the admin
// dashboard: articles, quarterly reports, contact submissions, operators,
// conversation logs and the overview figures.
package service

import (
	"errors"
	"strings"
	"time"
)

// Validation errors. Handlers map these to operator-facing messages.
var (
	ErrMissingFields   = errors.New("required fields are missing")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidQuarter  = errors.New("invalid quarter")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidCategory = errors.New("invalid category")
)

// FilterAll selects every status in the in-memory filters.
const FilterAll = "all"

type clock func() time.Time

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
