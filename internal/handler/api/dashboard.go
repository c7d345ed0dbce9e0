// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// Dashboard handles GET /admin/api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := h.dashboard.Overview(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load dashboard")
		return
	}
	WriteSuccess(w, ov, nil)
}
