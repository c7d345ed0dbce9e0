// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/auth"
)

// LoginProtection provides combined IP rate limiting and account lockout protection.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
	attempts   auth.AttemptStore

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5 = 1 request per 2 seconds)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is how long a locked account stays locked (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a new login protection instance backed by
// attempts. A nil store means a process-local one.
func NewLoginProtection(cfg LoginProtectionConfig, attempts auth.AttemptStore) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}
	if attempts == nil {
		attempts = auth.NewMemoryAttempts()
	}

	return &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		attempts:          attempts,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAccountLocked checks if an account is currently locked.
// Returns (locked, remainingTime). Store errors fail open.
func (lp *LoginProtection) IsAccountLocked(ctx context.Context, email string) (bool, time.Duration) {
	left, err := lp.attempts.LockedFor(ctx, accountKey(email))
	if err != nil {
		slog.ErrorContext(ctx, "reading login lockout", "error", err)
		return false, 0
	}
	return left > 0, left
}

// RecordFailedAttempt records a failed login attempt.
// Returns (locked, lockDuration) if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(ctx context.Context, email string) (bool, time.Duration) {
	key := accountKey(email)
	count, err := lp.attempts.Fail(ctx, key, lp.attemptWindow)
	if err != nil {
		slog.ErrorContext(ctx, "recording failed login", "error", err)
		return false, 0
	}
	slog.DebugContext(ctx, "login attempt recorded", "email", key, "count", count)

	if count < lp.maxFailedAttempts {
		return false, 0
	}
	if err := lp.attempts.Lock(ctx, key, lp.lockoutDuration); err != nil {
		slog.ErrorContext(ctx, "locking account", "error", err)
		return false, 0
	}
	slog.WarnContext(ctx, "account locked due to failed attempts", "email", key, "duration", lp.lockoutDuration)
	return true, lp.lockoutDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(ctx context.Context, email string) {
	if err := lp.attempts.Reset(ctx, accountKey(email)); err != nil {
		slog.ErrorContext(ctx, "clearing login attempts", "error", err)
	}
}

// Cleanup periodically drops stale limiter and attempt entries until
// ctx is done.
func (lp *LoginProtection) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if lp.ipLimiters.clearIfExceeds(maxLimiters) {
				slog.Info("cleared login rate limiters due to size")
			}
			if m, ok := lp.attempts.(*auth.MemoryAttempts); ok {
				m.Prune(lp.attemptWindow)
			}
		}
	}
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// This should be applied to the login POST route.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !lp.ipLimiters.get(ip).Allow() {
				slog.WarnContext(r.Context(), "login rate limit exceeded", "ip", ip)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
					"Too many login attempts. Please wait a moment and try again.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
