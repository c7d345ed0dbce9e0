// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/model"
)

func TestReportSaveValidation(t *testing.T) {
	svc := NewReportService(newTestGateway(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		draft ReportDraft
		want  error
	}{
		{"missing title", ReportDraft{Quarter: "Q1", Year: 2025}, ErrMissingFields},
		{"missing quarter", ReportDraft{Title: "t", Year: 2025}, ErrMissingFields},
		{"missing year", ReportDraft{Title: "t", Quarter: "Q1"}, ErrMissingFields},
		{"bad quarter", ReportDraft{Title: "t", Quarter: "Q5", Year: 2025}, ErrInvalidQuarter},
		{"bad year", ReportDraft{Title: "t", Quarter: "Q1", Year: 25}, ErrInvalidYear},
		{"bad status", ReportDraft{Title: "t", Quarter: "Q1", Year: 2025, Status: "archived"}, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Save(ctx, tt.draft), tt.want)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReportOrderingAndPublish(t *testing.T) {
	svc := NewReportService(newTestGateway(t))
	svc.now = stepClock(t0)
	ctx := context.Background()

	drafts := []ReportDraft{
		{Title: "2024 Q3", Quarter: "Q3", Year: 2024},
		{Title: "2025 Q1", Quarter: "Q1", Year: 2025},
		{Title: "2024 Q4", Quarter: "Q4", Year: 2024, Status: model.ReportPublished},
		{Title: "2025 Q2", Quarter: "Q2", Year: 2025},
	}
	for _, d := range drafts {
		require.NoError(t, svc.Save(ctx, d))
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	var titles []string
	for _, r := range list {
		titles = append(titles, r.Title)
		assert.Equal(t, r.Status == model.ReportPublished, r.PublishedAt != nil)
	}
	assert.Equal(t, []string{"2025 Q2", "2025 Q1", "2024 Q4", "2024 Q3"}, titles)

	require.NoError(t, svc.Publish(ctx, list[0].ID))
	published, err := svc.Published(ctx)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "2025 Q2", published[0].Title)
	assert.NotNil(t, published[0].PublishedAt)

	require.NoError(t, svc.Save(ctx, ReportDraft{ID: list[0].ID, Title: "2025 Q2 (rev)", Quarter: "Q2", Year: 2025, Status: model.ReportDraft}))
	require.NoError(t, svc.Delete(ctx, list[1].ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2025 Q2 (rev)", list[0].Title)
	assert.Nil(t, list[0].PublishedAt)
}
