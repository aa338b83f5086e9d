package memory

import (
	"context"
	"sync"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session
	stats    map[model.PlayerID]*model.PlayerStats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
		stats:    make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) SaveSession(ctx context.Context, prev, next *model.Session) error {
	if err := storage.CheckSave(prev, next); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.sessions[next.ID]
	switch {
	case prev == nil && exists:
		return model.ErrConflict
	case prev != nil && !exists:
		return model.ErrGameNotFound
	case prev != nil && current.Version != prev.Version:
		return model.ErrConflict
	}

	next.Version = storage.NextVersion(prev)
	s.sessions[next.ID] = next.Clone()
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) ListSessions(ctx context.Context, state model.SessionState) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []*model.Session
	for _, session := range s.sessions {
		if session.State == state {
			sessions = append(sessions, session.Clone())
		}
	}
	storage.SortSessions(sessions)
	return sessions, nil
}

// Player stats operations

func (s *Storage) RecordResult(ctx context.Context, result model.PlayerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.stats[result.PlayerID]
	if !ok {
		stats = &model.PlayerStats{PlayerID: result.PlayerID}
		s.stats[result.PlayerID] = stats
	}
	storage.ApplyResult(stats, result)
	return nil
}

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	cp := *stats
	return &cp, nil
}

// SessionCount returns how many sessions are stored (useful for testing)
func (s *Storage) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
