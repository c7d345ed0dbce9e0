// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

func TestContactSubmit(t *testing.T) {
	svc := NewContactService(newTestGateway(t))
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, ContactForm{
		Name: " Ann ", Email: "Ann <ann@example.org>", Subject: "media", Message: " Hello ",
	}))
	require.NoError(t, svc.Submit(ctx, ContactForm{
		Name: "Bob", Email: "bob@example.org", Subject: "lottery", Message: "Hi",
	}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, c := range list {
		assert.Equal(t, model.ContactNew, c.Status)
	}

	byName := map[string]model.ContactSubmission{}
	for _, c := range list {
		byName[c.Name] = c
	}
	assert.Equal(t, "ann@example.org", byName["Ann"].Email)
	assert.Equal(t, "Hello", byName["Ann"].Message)
	assert.Equal(t, "Media Inquiry", byName["Ann"].SubjectLabel())
	assert.Equal(t, "general", byName["Bob"].Subject, "unknown subjects fall back to general")
}

func TestContactSubmitValidation(t *testing.T) {
	svc := NewContactService(newTestGateway(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Submit(ctx, ContactForm{Email: "a@b.org", Message: "m"}), ErrMissingFields)
	assert.ErrorIs(t, svc.Submit(ctx, ContactForm{Name: "n", Message: "m"}), ErrMissingFields)
	assert.ErrorIs(t, svc.Submit(ctx, ContactForm{Name: "n", Email: "a@b.org"}), ErrMissingFields)
	assert.ErrorIs(t, svc.Submit(ctx, ContactForm{Name: "n", Email: "not-an-email", Message: "m"}), ErrInvalidEmail)
}

func TestContactOpenMarksReadOnce(t *testing.T) {
	gw := newTestGateway(t)
	svc := NewContactService(gw)
	ctx := context.Background()

	require.NoError(t, gw.Insert(ctx, model.TableContacts, gateway.Record{
		"id": "c1", "name": "Ann", "email": "a@b.org", "message": "m", "status": model.ContactNew,
	}))
	require.NoError(t, gw.Insert(ctx, model.TableContacts, gateway.Record{
		"id": "c2", "name": "Bob", "email": "b@b.org", "message": "m", "status": model.ContactResponded,
	}))

	c, err := svc.Open(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.ContactRead, c.Status)

	stored, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.ContactRead, stored.Status)

	require.NoError(t, svc.SetStatus(ctx, "c1", model.ContactArchived))
	c, err = svc.Open(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.ContactArchived, c.Status, "opening never moves a non-new submission")

	c, err = svc.Open(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, model.ContactResponded, c.Status)

	_, err = svc.Open(ctx, "missing")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestContactNotesAndStatus(t *testing.T) {
	gw := newTestGateway(t)
	svc := NewContactService(gw)
	ctx := context.Background()

	require.NoError(t, gw.Insert(ctx, model.TableContacts, gateway.Record{
		"id": "c1", "name": "Ann", "email": "a@b.org", "message": "m", "status": model.ContactNew,
	}))

	require.NoError(t, svc.SaveNotes(ctx, "c1", "Called back on Monday"))
	require.NoError(t, svc.SetStatus(ctx, "c1", model.ContactResponded))
	assert.ErrorIs(t, svc.SetStatus(ctx, "c1", "spam"), ErrInvalidStatus)

	c, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c.Notes)
	assert.Equal(t, "Called back on Monday", *c.Notes)
	assert.Equal(t, model.ContactResponded, c.Status)
}

func TestStatusCountsAndFilter(t *testing.T) {
	contacts := []model.ContactSubmission{
		{ID: "1", Status: model.ContactNew},
		{ID: "2", Status: model.ContactNew},
		{ID: "3", Status: model.ContactRead},
		{ID: "4", Status: model.ContactArchived},
	}

	counts := StatusCounts(contacts)
	assert.Equal(t, map[string]int{"all": 4, "new": 2, "read": 1, "responded": 0, "archived": 1}, counts)

	assert.Len(t, FilterContacts(contacts, "new"), 2)
	assert.Len(t, FilterContacts(contacts, "responded"), 0)
	assert.Len(t, FilterContacts(contacts, "all"), 4)
}
