// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rest implements gateway.Gateway against a hosted backend that
// exposes PostgREST-style table endpoints under /rest/v1 and functions
// under /functions/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Config configures the client.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the hosted backend.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
}

var _ gateway.Gateway = (*Client)(nil)

// New creates a client for the backend at cfg.URL.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("rest: backend URL is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parsing backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rest: unsupported URL scheme %q", u.Scheme)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("rest: API key is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{base: u, apiKey: cfg.APIKey, http: hc}, nil
}

// Select implements gateway.Tables.
func (c *Client) Select(ctx context.Context, table string, q gateway.Query, dest any) error {
	if err := gateway.CheckTable(table); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	addFilters(params, q.Filters)
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, c.tableURL(table, params), nil, nil)
	if err != nil {
		return tableError("select", table, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("rest: decoding %s rows: %w", table, err)
	}
	return nil
}

// Insert implements gateway.Tables.
func (c *Client) Insert(ctx context.Context, table string, rec gateway.Record) error {
	if err := gateway.CheckTable(table); err != nil {
		return err
	}
	if err := gateway.CheckRecord(rec); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, c.tableURL(table, nil), rec, minimalReturn)
	return tableError("insert", table, err)
}

// Update implements gateway.Tables.
func (c *Client) Update(ctx context.Context, table string, patch gateway.Record, match ...gateway.Filter) error {
	if err := gateway.CheckMutation(table, match...); err != nil {
		return err
	}
	if err := gateway.CheckRecord(patch); err != nil {
		return err
	}
	params := url.Values{}
	addFilters(params, match)
	_, err := c.do(ctx, http.MethodPatch, c.tableURL(table, params), patch, minimalReturn)
	return tableError("update", table, err)
}

// Delete implements gateway.Tables.
func (c *Client) Delete(ctx context.Context, table string, match ...gateway.Filter) error {
	if err := gateway.CheckMutation(table, match...); err != nil {
		return err
	}
	params := url.Values{}
	addFilters(params, match)
	_, err := c.do(ctx, http.MethodDelete, c.tableURL(table, params), nil, minimalReturn)
	return tableError("delete", table, err)
}

// Invoke implements gateway.Functions.
func (c *Client) Invoke(ctx context.Context, name string, body, out any) error {
	if !gateway.ValidFunctionName(name) {
		return fmt.Errorf("%w: %q", gateway.ErrUnknownFunction, name)
	}
	u := c.base.JoinPath("functions", "v1", name)
	resp, err := c.do(ctx, http.MethodPost, u.String(), body, nil)
	if err != nil {
		var ge *gateway.Error
		if errors.As(err, &ge) {
			return &gateway.FunctionError{Function: name, Status: ge.Status, Message: ge.Message}
		}
		return fmt.Errorf("rest: invoking %s: %w", name, err)
	}
	if out == nil || len(bytes.TrimSpace(resp)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("rest: decoding %s response: %w", name, err)
	}
	return nil
}

// Ping checks that the backend answers. Any non-5xx status counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.JoinPath("rest", "v1").String()+"/", nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: ping: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("rest: ping: status %d", resp.StatusCode)
	}
	return nil
}

var minimalReturn = map[string]string{"Prefer": "return=minimal"}

func (c *Client) tableURL(table string, params url.Values) string {
	u := c.base.JoinPath("rest", "v1", table)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// do sends a request and returns the response body. Non-2xx responses
// become *gateway.Error.
func (c *Client) do(ctx context.Context, method, target string, payload any, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, decodeError(resp.StatusCode, raw)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// decodeError extracts a message from PostgREST ({"code","message"}) or
// function ({"error"}) error bodies.
func decodeError(status int, raw []byte) *gateway.Error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	ge := &gateway.Error{Status: status}
	if err := json.Unmarshal(raw, &payload); err == nil {
		ge.Code = payload.Code
		ge.Message = payload.Message
		if ge.Message == "" {
			ge.Message = payload.Error
		}
	}
	if ge.Message == "" {
		ge.Message = strings.TrimSpace(string(raw))
	}
	if ge.Message == "" {
		ge.Message = http.StatusText(status)
	}
	return ge
}

func tableError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var ge *gateway.Error
	if errors.As(err, &ge) {
		ge.Op = op
		ge.Table = table
		return ge
	}
	return fmt.Errorf("rest: %s %s: %w", op, table, err)
}

func addFilters(params url.Values, filters []gateway.Filter) {
	for _, f := range filters {
		params.Add(f.Column, "eq."+formatValue(f.Value))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
