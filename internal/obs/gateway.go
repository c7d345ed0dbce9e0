// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package obs

import (
	"context"
	"errors"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
)

// Gateway wraps a gateway.Gateway and records every call.
type Gateway struct {
	inner gateway.Gateway
}

// WrapGateway instruments gw.
func WrapGateway(gw gateway.Gateway) *Gateway {
	return &Gateway{inner: gw}
}

func observe(op, target string, start time.Time, err error) {
	outcome := OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrNotFound):
		outcome = "not_found"
	case gateway.IsFunctionError(err):
		outcome = "function_error"
	default:
		outcome = OutcomeError
	}
	gatewayCalls.WithLabelValues(op, target, outcome).Inc()
	gatewayDuration.WithLabelValues(op, target).Observe(time.Since(start).Seconds())
}

// Select implements gateway.Tables.
func (g *Gateway) Select(ctx context.Context, table string, q gateway.Query, dest any) error {
	start := time.Now()
	err := g.inner.Select(ctx, table, q, dest)
	observe("select", table, start, err)
	return err
}

// Insert implements gateway.Tables.
func (g *Gateway) Insert(ctx context.Context, table string, rec gateway.Record) error {
	start := time.Now()
	err := g.inner.Insert(ctx, table, rec)
	observe("insert", table, start, err)
	return err
}

// Update implements gateway.Tables.
func (g *Gateway) Update(ctx context.Context, table string, patch gateway.Record, match ...gateway.Filter) error {
	start := time.Now()
	err := g.inner.Update(ctx, table, patch, match...)
	observe("update", table, start, err)
	return err
}

// Delete implements gateway.Tables.
func (g *Gateway) Delete(ctx context.Context, table string, match ...gateway.Filter) error {
	start := time.Now()
	err := g.inner.Delete(ctx, table, match...)
	observe("delete", table, start, err)
	return err
}

// Invoke implements gateway.Functions.
func (g *Gateway) Invoke(ctx context.Context, name string, body, out any) error {
	start := time.Now()
	err := g.inner.Invoke(ctx, name, body, out)
	observe("invoke", name, start, err)
	return err
}

// Ping implements gateway.Gateway.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}
