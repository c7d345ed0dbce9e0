// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/foundation-go/internal/model"
)

// RecordKey names the persisted session record.
const RecordKey = "admin_session"

// ErrCorrupt is returned when the persisted record cannot be decoded.
var ErrCorrupt = errors.New("session: corrupt record")

// Store holds at most one session record.
type Store interface {
	// Load returns nil, nil when no record exists.
	Load(ctx context.Context) (*model.Session, error)
	// Save overwrites any existing record.
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

// ManagerStore keeps the record inside the request's scs session. The
// context passed to every method must come from a request wrapped by
// scs.SessionManager.LoadAndSave.
type ManagerStore struct {
	sm *scs.SessionManager
}

// NewManagerStore returns a store backed by sm.
func NewManagerStore(sm *scs.SessionManager) *ManagerStore {
	return &ManagerStore{sm: sm}
}

// Load implements Store.
func (s *ManagerStore) Load(ctx context.Context) (*model.Session, error) {
	raw := s.sm.GetString(ctx, RecordKey)
	if raw == "" {
		return nil, nil
	}
	return decode([]byte(raw))
}

// Save implements Store. The cookie token is renewed so a pre-login
// session id never carries an authenticated record.
func (s *ManagerStore) Save(ctx context.Context, sess model.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding record: %w", err)
	}
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("session: renewing token: %w", err)
	}
	s.sm.Put(ctx, RecordKey, string(buf))
	return nil
}

// Clear implements Store.
func (s *ManagerStore) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, RecordKey)
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu  sync.Mutex
	raw []byte
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(context.Context) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return nil, nil
	}
	return decode(m.raw)
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, sess model.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding record: %w", err)
	}
	m.mu.Lock()
	m.raw = buf
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.raw = nil
	m.mu.Unlock()
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(raw []byte) {
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
}

func decode(raw []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &s, nil
}
