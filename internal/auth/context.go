// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth owns operator authentication: the per-request
// authentication context, password hashing and failed-login tracking.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/session"
)

// Login failure messages shown to the operator.
const (
	MsgAuthFailed      = "Authentication failed"
	MsgInvalidResponse = "Invalid response from server"
	MsgNetworkError    = "Network error. Please try again."
)

// State is the lifecycle position of a Context.
type State int

// Context states.
const (
	StateBootstrapping State = iota
	StateValidating
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateValidating:
		return "validating"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// LoginResult is the outcome of Context.Login.
type LoginResult struct {
	Success bool
	Error   string
}

// Manager creates authentication contexts bound to a session store.
type Manager struct {
	fn  gateway.Functions
	now func() time.Time
}

// NewManager returns a manager that authenticates through fn.
func NewManager(fn gateway.Functions) *Manager {
	return &Manager{fn: fn, now: time.Now}
}

// Context is the authentication state of one operator session.
type Context struct {
	m     *Manager
	store session.Store

	mu    sync.RWMutex
	state State
	user  *model.Operator
}

// Bootstrap reads the persisted session once and settles the context in
// Authenticated or Unauthenticated. Absent, corrupt, expired or
// rejected sessions are cleared.
func (m *Manager) Bootstrap(ctx context.Context, store session.Store) *Context {
	c := &Context{m: m, store: store, state: StateBootstrapping}

	sess, err := store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable admin session", "error", err)
		c.clear(ctx)
		return c
	}
	if sess == nil {
		c.setState(StateUnauthenticated, nil)
		return c
	}
	if sess.Expired(m.now()) {
		c.clear(ctx)
		return c
	}

	c.setState(StateValidating, nil)
	c.validate(ctx, *sess)
	return c
}

// Anonymous returns an unauthenticated context with no backing session.
func (m *Manager) Anonymous() *Context {
	return &Context{m: m, store: session.NewMemoryStore(), state: StateUnauthenticated}
}

func (c *Context) validate(ctx context.Context, sess model.Session) {
	var resp model.AuthResponse
	err := c.m.fn.Invoke(ctx, model.FunctionAdminAuth, model.AuthRequest{
		Action: model.AuthActionValidate,
		Token:  sess.Token,
		UserID: sess.UserID,
	}, &resp)
	if err != nil {
		slog.WarnContext(ctx, "session validation failed", "user_id", sess.UserID, "error", err)
		c.clear(ctx)
		return
	}
	if !resp.Valid || resp.User == nil {
		c.clear(ctx)
		return
	}
	c.setState(StateAuthenticated, resp.User)
}

// Login exchanges credentials for a session. On success the session is
// persisted and the context becomes Authenticated.
func (c *Context) Login(ctx context.Context, email, password string) LoginResult {
	var resp model.AuthResponse
	err := c.m.fn.Invoke(ctx, model.FunctionAdminAuth, model.AuthRequest{
		Action:   model.AuthActionLogin,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		if gateway.IsFunctionError(err) {
			slog.WarnContext(ctx, "login function error", "error", err)
			return LoginResult{Error: MsgAuthFailed}
		}
		slog.ErrorContext(ctx, "login request failed", "error", err)
		return LoginResult{Error: MsgNetworkError}
	}

	if resp.Error != "" {
		return LoginResult{Error: resp.Error}
	}
	if !resp.Success || resp.User == nil || resp.Token == "" || resp.ExpiresAt == "" {
		return LoginResult{Error: MsgInvalidResponse}
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, resp.ExpiresAt)
	if err != nil {
		return LoginResult{Error: MsgInvalidResponse}
	}

	if err := c.store.Save(ctx, model.Session{
		Token:     resp.Token,
		UserID:    resp.User.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "persisting admin session", "error", err)
		return LoginResult{Error: MsgNetworkError}
	}

	c.setState(StateAuthenticated, resp.User)
	return LoginResult{Success: true}
}

// Logout clears the session and user. It never contacts the backend.
func (c *Context) Logout(ctx context.Context) {
	c.clear(ctx)
}

// HasPermission reports whether the operator holds at least required.
func (c *Context) HasPermission(required model.Role) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return false
	}
	return c.user.Role.AtLeast(required)
}

// User returns the authenticated operator, or nil.
func (c *Context) User() *model.Operator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsAuthenticated reports whether an operator is signed in.
func (c *Context) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// IsLoading reports whether the context is still settling.
func (c *Context) IsLoading() bool {
	s := c.State()
	return s == StateBootstrapping || s == StateValidating
}

func (c *Context) clear(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "clearing admin session", "error", err)
	}
	c.setState(StateUnauthenticated, nil)
}

func (c *Context) setState(s State, u *model.Operator) {
	c.mu.Lock()
	c.state = s
	c.user = u
	c.mu.Unlock()
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying ac.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the authentication context stored in ctx, or nil.
func FromContext(ctx context.Context) *Context {
	ac, _ := ctx.Value(ctxKey{}).(*Context)
	return ac
}
