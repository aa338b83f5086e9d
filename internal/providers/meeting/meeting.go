// Package meeting keeps an external communication channel in step with a
// session roster. References it hands out are opaque to callers.
package meeting

import (
	"context"
	"errors"

	"github.com/mcoot/spellgame/internal/model"
)

// ErrMeetingNotFound is returned for references the provider does not know
var ErrMeetingNotFound = errors.New("meeting not found")

// Provider creates meetings and manages their attendees
type Provider interface {
	CreateMeeting(ctx context.Context) (string, error)
	AddAttendee(ctx context.Context, meetingRef string, playerID model.PlayerID) (string, error)
	RemoveAttendee(ctx context.Context, meetingRef, attendeeRef string) error
	DeleteMeeting(ctx context.Context, meetingRef string) error
}
