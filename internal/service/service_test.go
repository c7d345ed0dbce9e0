// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/gateway/sqlgw"
	"github.com/olegiv/foundation-go/internal/store"
)

// newTestGateway returns a migrated SQLite gateway.
func newTestGateway(t *testing.T) *sqlgw.Gateway {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, store.DialectSQLite))

	return sqlgw.New(db, store.DialectSQLite)
}

// stepClock returns a clock advancing one minute per call.
func stepClock(start time.Time) clock {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

var t0 = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
