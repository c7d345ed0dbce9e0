// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// ErrInvalidEmail is returned for contact forms with an unusable address.
var ErrInvalidEmail = errors.New("invalid email address")

// ContactForm is a public contact form submission.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactService manages contact submissions.
type ContactService struct {
	tables gateway.Tables
}

// NewContactService creates a new ContactService.
func NewContactService(tables gateway.Tables) *ContactService {
	return &ContactService{tables: tables}
}

// Submit records a new submission from the public form.
func (s *ContactService) Submit(ctx context.Context, f ContactForm) error {
	if blank(f.Name) || blank(f.Email) || blank(f.Message) {
		return ErrMissingFields
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(f.Email))
	if err != nil {
		return ErrInvalidEmail
	}
	subject := f.Subject
	if !slices.Contains(model.ContactSubjects, subject) {
		subject = model.DefaultContactSubj
	}

	err = s.tables.Insert(ctx, model.TableContacts, gateway.Record{
		"name":    strings.TrimSpace(f.Name),
		"email":   addr.Address,
		"subject": subject,
		"message": strings.TrimSpace(f.Message),
		"status":  model.ContactNew,
	})
	if err != nil {
		return fmt.Errorf("saving contact submission: %w", err)
	}
	return nil
}

// List returns all submissions, newest first.
func (s *ContactService) List(ctx context.Context) ([]model.ContactSubmission, error) {
	rows, err := gateway.List[model.ContactSubmission](ctx, s.tables, model.TableContacts, gateway.Query{
		Order: []gateway.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing contact submissions: %w", err)
	}
	return rows, nil
}

// Get returns one submission.
func (s *ContactService) Get(ctx context.Context, id string) (model.ContactSubmission, error) {
	return gateway.First[model.ContactSubmission](ctx, s.tables, model.TableContacts, nil, gateway.Eq("id", id))
}

// Open returns a submission for viewing. Opening a new submission marks
// it read; any other status is left alone.
func (s *ContactService) Open(ctx context.Context, id string) (model.ContactSubmission, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return c, err
	}
	if c.Status != model.ContactNew {
		return c, nil
	}
	if err := s.SetStatus(ctx, id, model.ContactRead); err != nil {
		return c, err
	}
	c.Status = model.ContactRead
	return c, nil
}

// SetStatus changes the triage status of a submission.
func (s *ContactService) SetStatus(ctx context.Context, id string, status model.ContactStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.tables.Update(ctx, model.TableContacts, gateway.Record{"status": status}, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("setting contact %s status: %w", id, err)
	}
	return nil
}

// SaveNotes replaces the internal notes of a submission.
func (s *ContactService) SaveNotes(ctx context.Context, id, notes string) error {
	if err := s.tables.Update(ctx, model.TableContacts, gateway.Record{"notes": notes}, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("saving contact %s notes: %w", id, err)
	}
	return nil
}

// FilterContacts keeps submissions with the given status; "all" or "" keeps all.
func FilterContacts(contacts []model.ContactSubmission, status string) []model.ContactSubmission {
	if status == "" || status == FilterAll {
		return contacts
	}
	out := make([]model.ContactSubmission, 0, len(contacts))
	for _, c := range contacts {
		if string(c.Status) == status {
			out = append(out, c)
		}
	}
	return out
}

// StatusCounts tallies submissions per status, with "all" as the total.
// Every known status is present, zero when unused.
func StatusCounts(contacts []model.ContactSubmission) map[string]int {
	counts := map[string]int{FilterAll: len(contacts)}
	for _, st := range model.ContactStatuses {
		counts[string(st)] = 0
	}
	for _, c := range contacts {
		counts[string(c.Status)]++
	}
	return counts
}
