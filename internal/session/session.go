// Package session keeps one mounted selection screen per visitor (web cookie
// or Telegram chat) in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skip-selector/internal/catalog"
	"skip-selector/internal/selection"
	"skip-selector/pkg/api"
	"skip-selector/pkg/redis"
)

var ErrNotFound = errors.New("session not found")

// errFetchFailed stands in for the original cause, which is not stored.
var errFetchFailed = fmt.Errorf("%w: see logs", api.ErrFetchFailed)

type Session struct {
	ID        string               `json:"id"`
	Status    catalog.Status       `json:"status"`
	Skips     []api.Skip           `json:"skips,omitempty"`
	Selection selection.Controller `json:"selection"`
	Messages  *Messages            `json:"messages,omitempty"`
}

// Messages are the Telegram message ids of a rendered screen.
type Messages struct {
	Loading int           `json:"loading"`
	Cards   map[int64]int `json:"cards,omitempty"`
	Summary int           `json:"summary,omitempty"`
}

// Result rebuilds the fetch result the session was resolved with.
func (s *Session) Result() catalog.Result {
	switch s.Status {
	case catalog.StatusSucceeded:
		return catalog.Succeeded(s.Skips)
	case catalog.StatusFailed:
		return catalog.Failed(errFetchFailed)
	default:
		return catalog.Pending()
	}
}

type Storage interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

var _ Storage = (*redis.Client)(nil)

type Manager struct {
	storage Storage
	ttl     time.Duration
}

func NewManager(storage Storage, ttl time.Duration) *Manager {
	return &Manager{storage: storage, ttl: ttl}
}

// Mount starts a fresh pending screen for id, dropping any previous
// selection.
func (m *Manager) Mount(ctx context.Context, id string) (*Session, error) {
	s := &Session{ID: id, Status: catalog.StatusPending}
	if err := m.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("mount session: %w", err)
	}
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := m.storage.GetJSON(ctx, buildKey(id), &s)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.storage.SetJSON(ctx, buildKey(s.ID), s, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Resolve records the outcome of the mount's fetch. A failed fetch leaves
// nothing to select, so any selection made while pending is cleared.
func (m *Manager) Resolve(ctx context.Context, id string, res catalog.Result) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Status = res.Status
	s.Skips = nil
	if res.Status == catalog.StatusSucceeded {
		s.Skips = res.Skips
	} else {
		s.Selection.Clear()
	}

	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Toggle flips skipID in the session's selection and reports whether it is
// selected afterwards.
func (m *Manager) Toggle(ctx context.Context, id string, skipID int64) (*Session, bool, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	selected := s.Selection.Toggle(skipID)
	if err := m.Save(ctx, s); err != nil {
		return nil, false, err
	}
	return s, selected, nil
}

func (m *Manager) Drop(ctx context.Context, id string) error {
	if err := m.storage.Del(ctx, buildKey(id)); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	return nil
}

func buildKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
