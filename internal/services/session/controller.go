package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/spellgame/internal/dependencies/clock"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/services/scoring"
	"github.com/mcoot/spellgame/internal/storage"
)

// ControllerConfig tunes the controller
type ControllerConfig struct {
	// MaxConflictRetries bounds load-compute-save attempts per request
	MaxConflictRetries int
}

// DefaultControllerConfig returns the default controller configuration
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{MaxConflictRetries: 5}
}

// Controller serves session requests by loading a snapshot, applying one
// machine transition and saving it on the condition that nobody else saved
// first. Lost races are retried from a fresh load.
type Controller struct {
	storage storage.Storage
	machine *Machine
	clock   clock.Clock
	cfg     ControllerConfig
	logger  *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	machine *Machine,
	clock clock.Clock,
	cfg ControllerConfig,
	logger *slog.Logger,
) *Controller {
	if cfg.MaxConflictRetries < 1 {
		cfg.MaxConflictRetries = 1
	}
	return &Controller{
		storage: storage,
		machine: machine,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

type transition func(ctx context.Context, s *model.Session) (*model.Session, error)

// apply runs one transition under optimistic concurrency. lost, when set, is
// called with a computed session whose save did not happen.
func (c *Controller) apply(ctx context.Context, id model.SessionID, op string, fn transition, lost func(*model.Session)) (*model.Session, error) {
	for attempt := 1; ; attempt++ {
		prev, err := c.storage.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		next, err := fn(ctx, prev)
		if err != nil {
			return nil, err
		}
		if next == prev {
			return prev, nil
		}

		err = c.storage.SaveSession(ctx, prev, next)
		if err == nil {
			c.afterSave(ctx, prev, next)
			return next, nil
		}
		if lost != nil {
			lost(next)
		}
		if !errors.Is(err, model.ErrConflict) || attempt >= c.cfg.MaxConflictRetries {
			c.logger.Warn("session save failed",
				slog.String("session_id", string(id)),
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		c.logger.Debug("session save conflict, retrying",
			slog.String("session_id", string(id)),
			slog.String("op", op),
			slog.Int("attempt", attempt),
		)
	}
}

// afterSave runs side effects of a committed transition. Completing a session
// releases its meeting, and finishing the final round records career stats.
func (c *Controller) afterSave(ctx context.Context, prev, next *model.Session) {
	if prev.State != model.StateCompleted && next.State == model.StateCompleted {
		c.machine.ReleaseMeeting(ctx, next.MeetingRef)
	}
	if prev.State != model.StateRoundEnded || next.State != model.StateCompleted || !next.IsFinalRound() {
		return
	}

	winner, hasWinner := scoring.Winner(next.Players)
	now := c.clock.Now()
	for _, p := range next.Players {
		result := model.PlayerResult{
			PlayerID:  p.ID,
			Username:  p.Username,
			Score:     p.Score,
			Rating:    p.Rating,
			Won:       hasWinner && p.ID == winner,
			SessionID: next.ID,
			At:        now,
		}
		if err := c.storage.RecordResult(ctx, result); err != nil {
			c.logger.Error("failed to record player result",
				slog.String("session_id", string(next.ID)),
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
		}
	}

	c.logger.Info("game completed",
		slog.String("session_id", string(next.ID)),
		slog.Int("rounds", next.CurrentRound),
		slog.Int("player_count", len(next.Players)),
		slog.String("winner", string(winner)),
	)
}

// Create starts a new session hosted by host
func (c *Controller) Create(ctx context.Context, name string, host model.Candidate, override model.SettingsOverride) (*model.Session, error) {
	session, err := c.machine.Create(ctx, name, host, override)
	if err != nil {
		return nil, err
	}

	if err := c.storage.SaveSession(ctx, nil, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		c.machine.ReleaseMeeting(ctx, session.MeetingRef)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("host_id", string(host.ID)),
		slog.String("difficulty", string(session.Settings.Difficulty)),
		slog.Int("total_rounds", session.Settings.TotalRounds),
	)
	return session, nil
}

// Get retrieves a session by ID
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// List returns sessions in the given state
func (c *Controller) List(ctx context.Context, state model.SessionState) ([]*model.Session, error) {
	return c.storage.ListSessions(ctx, state)
}

// Join adds a player to a lobby
func (c *Controller) Join(ctx context.Context, id model.SessionID, candidate model.Candidate) (*model.Session, error) {
	session, err := c.apply(ctx, id, "join", func(ctx context.Context, s *model.Session) (*model.Session, error) {
		return c.machine.AddPlayer(ctx, s, candidate)
	}, func(lost *model.Session) {
		// The attendee was created for a roster that was never saved
		if p := lost.GetPlayer(candidate.ID); p != nil && p.AttendeeRef != "" {
			c.machine.ReleaseAttendee(ctx, lost.MeetingRef, p.AttendeeRef)
		}
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined session",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(candidate.ID)),
		slog.Int("player_count", len(session.Players)),
	)
	return session, nil
}

// Leave removes a player. A session left with no players is ended and deleted.
func (c *Controller) Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) (*model.Session, error) {
	session, err := c.apply(ctx, id, "leave", func(ctx context.Context, s *model.Session) (*model.Session, error) {
		next, err := c.machine.RemovePlayer(ctx, s, playerID)
		if err != nil {
			return nil, err
		}
		if len(next.Players) == 0 {
			return c.machine.End(ctx, next)
		}
		return next, nil
	}, nil)
	if err != nil {
		return nil, err
	}

	if len(session.Players) == 0 {
		if err := c.storage.DeleteSession(ctx, id); err != nil {
			return nil, err
		}
		c.logger.Info("empty session deleted", slog.String("session_id", string(id)))
		return session, nil
	}

	c.logger.Info("player left session",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.String("host_id", string(session.HostID)),
	)
	return session, nil
}

// SetReady changes a player's readiness
func (c *Controller) SetReady(ctx context.Context, id model.SessionID, playerID model.PlayerID, ready bool) (*model.Session, error) {
	return c.apply(ctx, id, "set_ready", func(ctx context.Context, s *model.Session) (*model.Session, error) {
		return c.machine.SetReady(s, playerID, ready)
	}, nil)
}

// Start moves a ready lobby into its first round
func (c *Controller) Start(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.apply(ctx, id, "start", func(ctx context.Context, s *model.Session) (*model.Session, error) {
		return c.machine.Start(s)
	}, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("session_id", string(id)),
		slog.Int("player_count", len(session.Players)),
	)
	return session, nil
}

// BeginRound draws a word and opens the current round
func (c *Controller) BeginRound(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.apply(ctx, id, "begin_round", c.machine.BeginRound, nil)
}

// SubmitAnswer scores a player's answer for the current round
func (c *Controller) SubmitAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, answer string) (*model.Session, error) {
	return c.apply(ctx, id, "submit_answer", func(ctx context.Context, s *model.Session) (*model.Session, error) {
		return c.machine.SubmitAnswer(ctx, s, playerID, answer)
	}, nil)
}

// Advance moves to the next round or completes the session
func (c *Controller) Advance(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.apply(ctx, id, "advance", c.machine.AdvanceOrComplete, nil)
}

// End terminates a session early
func (c *Controller) End(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.apply(ctx, id, "end", c.machine.End, nil)
	if err != nil {
		return nil, err
	}
	c.logger.Info("session ended", slog.String("session_id", string(id)))
	return session, nil
}

// PlayerStats returns a player's career stats
func (c *Controller) PlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	return c.storage.GetPlayerStats(ctx, id)
}

// ControllerInterface defines the session controller contract
type ControllerInterface interface {
	Create(ctx context.Context, name string, host model.Candidate, override model.SettingsOverride) (*model.Session, error)
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)
	List(ctx context.Context, state model.SessionState) ([]*model.Session, error)
	Join(ctx context.Context, id model.SessionID, candidate model.Candidate) (*model.Session, error)
	Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) (*model.Session, error)
	SetReady(ctx context.Context, id model.SessionID, playerID model.PlayerID, ready bool) (*model.Session, error)
	Start(ctx context.Context, id model.SessionID) (*model.Session, error)
	BeginRound(ctx context.Context, id model.SessionID) (*model.Session, error)
	SubmitAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, answer string) (*model.Session, error)
	Advance(ctx context.Context, id model.SessionID) (*model.Session, error)
	End(ctx context.Context, id model.SessionID) (*model.Session, error)
	PlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error)
}

var _ ControllerInterface = (*Controller)(nil)
