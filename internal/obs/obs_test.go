// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package obs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/gateway"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/admin/api/news/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/admin/api/news/{id}", "GET", "418"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/api/news/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("/admin/api/news/{id}", "GET", "418"))
	assert.Equal(t, 2.0, after-before)
}

type stubGateway struct {
	gateway.Gateway
	err error
}

func (s stubGateway) Select(context.Context, string, gateway.Query, any) error { return s.err }
func (s stubGateway) Invoke(context.Context, string, any, any) error          { return s.err }

func TestWrapGatewayOutcomes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		err     error
		outcome string
	}{
		{nil, OutcomeOK},
		{gateway.ErrNotFound, "not_found"},
		{errors.New("dial tcp: refused"), OutcomeError},
	}
	for _, tt := range tests {
		c := gatewayCalls.WithLabelValues("select", "news_articles", tt.outcome)
		before := testutil.ToFloat64(c)
		err := WrapGateway(stubGateway{err: tt.err}).Select(ctx, "news_articles", gateway.Query{}, nil)
		assert.Equal(t, tt.err, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(c)-before, tt.outcome)
	}

	c := gatewayCalls.WithLabelValues("invoke", "admin-auth", "function_error")
	before := testutil.ToFloat64(c)
	_ = WrapGateway(stubGateway{err: &gateway.FunctionError{Status: 500}}).Invoke(ctx, "admin-auth", nil, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveLogin(OutcomeOK)
	ObserveChat(OutcomeFailed)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	for _, name := range []string{
		"foundation_admin_logins_total",
		"foundation_chat_turns_total",
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(string(body), name), "missing %s", name)
	}
}
