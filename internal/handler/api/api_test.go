// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/functions"
	"github.com/olegiv/foundation-go/internal/gateway/sqlgw"
	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/session"
	"github.com/olegiv/foundation-go/internal/store"
)

const (
	adminEmail    = "admin@example.org"
	adminPassword = "admin-password-1"
	browserHeader = "X-Test-Browser"
)

// testAPI serves the admin API with one session store per simulated
// browser, selected by a request header.
type testAPI struct {
	gw      *sqlgw.Gateway
	handler http.Handler

	mu       sync.Mutex
	browsers map[string]*session.MemoryStore
}

func newTestAPI(t *testing.T, protection *middleware.LoginProtection) *testAPI {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, store.DialectSQLite))

	gw := sqlgw.New(db, store.DialectSQLite)
	gw.Register(model.FunctionAdminAuth, functions.NewAdminAuth(gw, functions.NewTokenSigner("test-Secret-key-32-bytes-long!!!", time.Hour)).Handle)
	created, err := functions.SeedAdmin(context.Background(), gw, adminEmail, adminPassword, "Admin")
	require.NoError(t, err)
	require.True(t, created)

	ta := &testAPI{gw: gw, browsers: make(map[string]*session.MemoryStore)}
	h := NewHandler(Config{
		Auth:       auth.NewManager(gw),
		Store:      ta.store,
		Protection: protection,
		Gateway:    gw,
	})
	ta.handler = h.Routes()
	return ta
}

func (ta *testAPI) store(r *http.Request) session.Store {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	name := r.Header.Get(browserHeader)
	st, ok := ta.browsers[name]
	if !ok {
		st = session.NewMemoryStore()
		ta.browsers[name] = st
	}
	return st
}

func (ta *testAPI) do(t *testing.T, browser, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(browserHeader, browser)
	req.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func (ta *testAPI) login(t *testing.T, browser, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return ta.do(t, browser, http.MethodPost, "/login", map[string]string{"email": email, "password": password})
}

// addOperator creates an operator through the admin browser and signs
// it in under its own browser name.
func (ta *testAPI) addOperator(t *testing.T, role model.Role) string {
	t.Helper()
	email := string(role) + "@example.org"
	rr := ta.do(t, "admin", http.MethodPost, "/users", map[string]string{
		"email": email, "password": "password-" + string(role), "fullName": "Test " + string(role), "role": string(role),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, http.StatusOK, ta.login(t, string(role), email, "password-"+string(role)).Code)
	return string(role)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type envelope[T any] struct {
	Data  T            `json:"data"`
	Meta  *Meta        `json:"meta"`
	Error *ErrorDetail `json:"error"`
}

func signedInAPI(t *testing.T) *testAPI {
	t.Helper()
	ta := newTestAPI(t, nil)
	require.Equal(t, http.StatusOK, ta.login(t, "admin", adminEmail, adminPassword).Code)
	return ta
}
