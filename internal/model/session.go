// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Session is the persisted proof of a prior successful login.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer usable at now.
// A session expiring exactly at now is expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
