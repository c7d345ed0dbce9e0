// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package functions

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/gateway/sqlgw"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/store"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

// newTestGateway returns a migrated SQLite gateway with both functions registered.
func newTestGateway(t *testing.T) (*sqlgw.Gateway, *AdminAuth) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "functions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, store.DialectSQLite))

	gw := sqlgw.New(db, store.DialectSQLite)
	aa := NewAdminAuth(gw, NewTokenSigner(testSecret, time.Hour))
	aa.hasher = auth.NewHasher(auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8})
	gw.Register(model.FunctionAdminAuth, aa.Handle)
	return gw, aa
}

// addUser inserts an operator directly.
func addUser(t *testing.T, gw *sqlgw.Gateway, aa *AdminAuth, email, password string, role model.Role, active bool) string {
	t.Helper()
	hash, err := aa.hasher.Hash(password)
	require.NoError(t, err)
	user, err := insertUser(context.Background(), gw, email, "Test "+string(role), hash, role, time.Now())
	require.NoError(t, err)
	if !active {
		require.NoError(t, gw.Update(context.Background(), model.TableAdminUsers,
			gateway.Record{"is_active": false}, gateway.Eq("id", user.ID)))
	}
	return user.ID
}

func invokeAuth(t *testing.T, gw gateway.Functions, req model.AuthRequest) model.AuthResponse {
	t.Helper()
	var resp model.AuthResponse
	require.NoError(t, gw.Invoke(context.Background(), model.FunctionAdminAuth, req, &resp))
	return resp
}

func isFunctionStatus(err error, status int) bool {
	var fe *gateway.FunctionError
	return errors.As(err, &fe) && fe.Status == status
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	buf, err := json.Marshal(v)
	require.NoError(t, err)
	return buf
}
