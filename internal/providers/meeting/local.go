package meeting

import (
	"context"
	"sync"

	"github.com/mcoot/spellgame/internal/dependencies/idgen"
	"github.com/mcoot/spellgame/internal/model"
)

// Local is an in-process Provider that tracks meetings in memory.
// It is used for single-node deployments and tests.
type Local struct {
	mu       sync.RWMutex
	ids      idgen.Generator
	meetings map[string]map[string]model.PlayerID // meetingRef -> attendeeRef -> player
}

// Ensure Local implements Provider
var _ Provider = (*Local)(nil)

// NewLocal creates a new Local provider
func NewLocal(ids idgen.Generator) *Local {
	return &Local{
		ids:      ids,
		meetings: make(map[string]map[string]model.PlayerID),
	}
}

// CreateMeeting allocates a new empty meeting
func (l *Local) CreateMeeting(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ref := "mtg-" + l.ids.NewID()
	l.meetings[ref] = make(map[string]model.PlayerID)
	return ref, nil
}

// AddAttendee registers a player in the meeting
func (l *Local) AddAttendee(ctx context.Context, meetingRef string, playerID model.PlayerID) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attendees, ok := l.meetings[meetingRef]
	if !ok {
		return "", ErrMeetingNotFound
	}
	ref := "att-" + l.ids.NewID()
	attendees[ref] = playerID
	return ref, nil
}

// RemoveAttendee drops an attendee. Unknown attendees are ignored.
func (l *Local) RemoveAttendee(ctx context.Context, meetingRef, attendeeRef string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	attendees, ok := l.meetings[meetingRef]
	if !ok {
		return ErrMeetingNotFound
	}
	delete(attendees, attendeeRef)
	return nil
}

// DeleteMeeting releases a meeting. Deleting an unknown meeting is a no-op.
func (l *Local) DeleteMeeting(ctx context.Context, meetingRef string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.meetings, meetingRef)
	return nil
}

// Attendees returns the players currently in a meeting
func (l *Local) Attendees(meetingRef string) []model.PlayerID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.PlayerID
	for _, p := range l.meetings[meetingRef] {
		out = append(out, p)
	}
	return out
}

// MeetingCount returns how many meetings are open
func (l *Local) MeetingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.meetings)
}
