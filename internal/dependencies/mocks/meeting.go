package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/providers/meeting"
)

// MockMeetingProvider records calls and returns sequential references.
// Set the Err fields to make the next matching call fail.
type MockMeetingProvider struct {
	mu sync.Mutex

	CreateErr error
	AddErr    error
	RemoveErr error
	DeleteErr error

	Created  []string
	Added    map[string]model.PlayerID // attendeeRef -> player
	Removed  []string
	Deleted  []string
	sequence int
}

// Ensure MockMeetingProvider implements Provider
var _ meeting.Provider = (*MockMeetingProvider)(nil)

// NewMockMeetingProvider creates a new MockMeetingProvider
func NewMockMeetingProvider() *MockMeetingProvider {
	return &MockMeetingProvider{Added: make(map[string]model.PlayerID)}
}

func (m *MockMeetingProvider) CreateMeeting(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.sequence++
	ref := fmt.Sprintf("meeting-%d", m.sequence)
	m.Created = append(m.Created, ref)
	return ref, nil
}

func (m *MockMeetingProvider) AddAttendee(ctx context.Context, meetingRef string, playerID model.PlayerID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return "", m.AddErr
	}
	m.sequence++
	ref := fmt.Sprintf("attendee-%s-%d", playerID, m.sequence)
	m.Added[ref] = playerID
	return ref, nil
}

func (m *MockMeetingProvider) RemoveAttendee(ctx context.Context, meetingRef, attendeeRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, attendeeRef)
	return nil
}

func (m *MockMeetingProvider) DeleteMeeting(ctx context.Context, meetingRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, meetingRef)
	return nil
}
