// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtectionConfig returns a config suitable for fast testing.
func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{}, nil)

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attempts == nil {
		t.Error("attempts store should default to memory")
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	ctx := context.Background()
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute), nil)
	email := "Editor@Example.org"

	if locked, _ := lp.IsAccountLocked(ctx, email); locked {
		t.Fatal("account should not be locked initially")
	}

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(ctx, email); locked {
			t.Fatalf("locked after %d attempts", i)
		}
	}

	locked, d := lp.RecordFailedAttempt(ctx, " editor@example.org ")
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt() = (%v, %v), want (true, 1m)", locked, d)
	}

	locked, left := lp.IsAccountLocked(ctx, email)
	if !locked || left <= 0 || left > time.Minute {
		t.Errorf("IsAccountLocked() = (%v, %v)", locked, left)
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	ctx := context.Background()
	lp := NewLoginProtection(testLoginProtectionConfig(2, time.Minute, time.Minute), nil)

	lp.RecordFailedAttempt(ctx, "a@example.org")
	lp.RecordSuccessfulLogin(ctx, "a@example.org")

	if locked, _ := lp.RecordFailedAttempt(ctx, "a@example.org"); locked {
		t.Error("success should reset the failure count")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2}, nil)
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/api/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, code)
		}
	}
	if code := post("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("over limit: status = %d, want 429", code)
	}
	if code := post("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/login", nil)
	req.RemoteAddr = "10.0.0.1:1"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET should not be limited, got %d", rr.Code)
	}
}

func TestLoginProtectionCleanupStops(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		lp.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup did not stop")
	}
}
