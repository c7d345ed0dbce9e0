// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"admin has admin", RoleAdmin, RoleAdmin, true},
		{"admin has editor", RoleAdmin, RoleEditor, true},
		{"admin has viewer", RoleAdmin, RoleViewer, true},
		{"editor has editor", RoleEditor, RoleEditor, true},
		{"editor lacks admin", RoleEditor, RoleAdmin, false},
		{"viewer has viewer", RoleViewer, RoleViewer, true},
		{"viewer lacks editor", RoleViewer, RoleEditor, false},
		{"unknown role", Role("owner"), RoleViewer, false},
		{"unknown required", RoleAdmin, Role("owner"), false},
		{"empty role", "", RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.required); got != tt.want {
				t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.role, tt.required, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{" Editor ", RoleEditor, false},
		{"VIEWER", RoleViewer, false},
		{"superuser", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"zero", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{Token: "t", UserID: "u", ExpiresAt: tt.expiresAt}
			if got := s.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminUserOperator(t *testing.T) {
	u := AdminUser{ID: "u1", Email: "a@example.org", FullName: "Ann", Role: RoleEditor, IsActive: true}
	op := u.Operator()
	if op.ID != "u1" || op.Email != "a@example.org" || op.FullName != "Ann" || op.Role != RoleEditor {
		t.Errorf("Operator() = %+v", op)
	}
}
