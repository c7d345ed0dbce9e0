// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// ReportDraft is the editable part of a quarterly report.
type ReportDraft struct {
	ID      string             `json:"id,omitempty"`
	Title   string             `json:"title"`
	Quarter string             `json:"quarter"`
	Year    int                `json:"year"`
	Summary string             `json:"summary"`
	Content string             `json:"content"`
	Status  model.ReportStatus `json:"status"`
}

var reportOrder = []gateway.Order{{Column: "year", Desc: true}, {Column: "quarter", Desc: true}}

// ReportService manages quarterly transparency reports.
type ReportService struct {
	tables gateway.Tables
	now    clock
}

// NewReportService creates a new ReportService.
func NewReportService(tables gateway.Tables) *ReportService {
	return &ReportService{tables: tables, now: time.Now}
}

// List returns all reports, latest period first.
func (s *ReportService) List(ctx context.Context) ([]model.QuarterlyReport, error) {
	rows, err := gateway.List[model.QuarterlyReport](ctx, s.tables, model.TableReports, gateway.Query{Order: reportOrder})
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return rows, nil
}

// Published returns published reports, latest period first.
func (s *ReportService) Published(ctx context.Context) ([]model.QuarterlyReport, error) {
	rows, err := gateway.List[model.QuarterlyReport](ctx, s.tables, model.TableReports, gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("status", model.ReportPublished)},
		Order:   reportOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("listing published reports: %w", err)
	}
	return rows, nil
}

// Save creates or updates a report. Title, quarter and year are required.
func (s *ReportService) Save(ctx context.Context, d ReportDraft) error {
	if blank(d.Title) || d.Quarter == "" || d.Year == 0 {
		return ErrMissingFields
	}
	if !model.ValidQuarter(d.Quarter) {
		return ErrInvalidQuarter
	}
	if d.Year < 1900 || d.Year > 9999 {
		return ErrInvalidYear
	}
	if d.Status == "" {
		d.Status = model.ReportDraft
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}

	rec := gateway.Record{
		"title":   strings.TrimSpace(d.Title),
		"quarter": d.Quarter,
		"year":    d.Year,
		"summary": d.Summary,
		"content": d.Content,
		"status":  d.Status,
	}
	publication(rec, d.Status == model.ReportPublished, s.now().UTC())

	if d.ID == "" {
		if err := s.tables.Insert(ctx, model.TableReports, rec); err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		return nil
	}
	if err := s.tables.Update(ctx, model.TableReports, rec, gateway.Eq("id", d.ID)); err != nil {
		return fmt.Errorf("updating report %s: %w", d.ID, err)
	}
	return nil
}

// Publish marks a report published now.
func (s *ReportService) Publish(ctx context.Context, id string) error {
	rec := gateway.Record{"status": model.ReportPublished}
	publication(rec, true, s.now().UTC())
	if err := s.tables.Update(ctx, model.TableReports, rec, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("publishing report %s: %w", id, err)
	}
	return nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.tables.Delete(ctx, model.TableReports, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	return nil
}
