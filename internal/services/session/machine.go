// Package session runs the game lifecycle: the state machine that moves a
// session from lobby to completion, and the controller that persists each
// transition with optimistic concurrency.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/spellgame/internal/dependencies/clock"
	"github.com/mcoot/spellgame/internal/dependencies/idgen"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/providers/meeting"
	"github.com/mcoot/spellgame/internal/providers/word"
	"github.com/mcoot/spellgame/internal/services/roster"
	"github.com/mcoot/spellgame/internal/services/scoring"
	"golang.org/x/text/cases"
)

// MachineConfig tunes the state machine
type MachineConfig struct {
	// MaxWordAttempts bounds how many times BeginRound asks for a word
	MaxWordAttempts int
}

// DefaultMachineConfig returns the default machine configuration
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{MaxWordAttempts: 5}
}

// Machine applies lifecycle transitions to session snapshots. It never
// mutates its input: each operation returns a new session or an error.
type Machine struct {
	meetings meeting.Provider
	words    word.Provider
	clock    clock.Clock
	ids      idgen.Generator
	cfg      MachineConfig
	logger   *slog.Logger
}

// NewMachine creates a new Machine
func NewMachine(
	meetings meeting.Provider,
	words word.Provider,
	clock clock.Clock,
	ids idgen.Generator,
	cfg MachineConfig,
	logger *slog.Logger,
) *Machine {
	if cfg.MaxWordAttempts < 1 {
		cfg.MaxWordAttempts = 1
	}
	return &Machine{
		meetings: meetings,
		words:    words,
		clock:    clock,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}
}

// providerError tags collaborator failures as transient
func providerError(op string, err error) error {
	if errors.Is(err, model.ErrTransientProvider) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrTransientProvider, op, err)
}

// Create starts a new session in the lobby with host as its only player
func (m *Machine) Create(ctx context.Context, name string, host model.Candidate, override model.SettingsOverride) (*model.Session, error) {
	settings, err := override.Apply(model.DefaultSettings())
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%s's game", host.Username)
	}

	meetingRef, err := m.meetings.CreateMeeting(ctx)
	if err != nil {
		return nil, providerError("create meeting", err)
	}
	attendeeRef, err := m.meetings.AddAttendee(ctx, meetingRef, host.ID)
	if err != nil {
		m.ReleaseMeeting(ctx, meetingRef)
		return nil, providerError("add host attendee", err)
	}

	now := m.clock.Now()
	s := &model.Session{
		ID:       model.SessionID(m.ids.NewID()),
		Name:     name,
		State:    model.StateLobby,
		HostID:   host.ID,
		Settings: settings,
		Players: []model.Player{{
			ID:          host.ID,
			Username:    host.Username,
			Rating:      model.BaselineRating,
			IsHost:      true,
			AttendeeRef: attendeeRef,
			JoinedAt:    now,
			LastActive:  now,
		}},
		MeetingRef: meetingRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s, nil
}

// AddPlayer adds candidate to a lobby and registers them as a meeting attendee
func (m *Machine) AddPlayer(ctx context.Context, s *model.Session, candidate model.Candidate) (*model.Session, error) {
	next, err := roster.AddPlayer(s, candidate, "", m.clock.Now())
	if err != nil {
		return nil, err
	}
	attendeeRef, err := m.meetings.AddAttendee(ctx, s.MeetingRef, candidate.ID)
	if err != nil {
		return nil, providerError("add attendee", err)
	}
	next.GetPlayer(candidate.ID).AttendeeRef = attendeeRef
	return next, nil
}

// RemovePlayer drops a player in any state but COMPLETED
func (m *Machine) RemovePlayer(ctx context.Context, s *model.Session, playerID model.PlayerID) (*model.Session, error) {
	next, err := roster.RemovePlayer(s, playerID, m.clock.Now())
	if err != nil {
		return nil, err
	}
	if ref := s.GetPlayer(playerID).AttendeeRef; ref != "" {
		m.ReleaseAttendee(ctx, s.MeetingRef, ref)
	}
	return next, nil
}

// SetReady changes a player's readiness in the lobby
func (m *Machine) SetReady(s *model.Session, playerID model.PlayerID, ready bool) (*model.Session, error) {
	return roster.SetReady(s, playerID, ready, m.clock.Now())
}

// Start moves a fully ready lobby to the first round
func (m *Machine) Start(s *model.Session) (*model.Session, error) {
	if s.State != model.StateLobby {
		return nil, fmt.Errorf("%w: cannot start a session in %s", model.ErrWrongPhase, s.State)
	}
	if len(s.Players) < model.MinPlayersToStartGame {
		return nil, model.ErrNotEnoughPlayers
	}
	if !roster.AllReady(s) {
		return nil, model.ErrPlayersNotReady
	}

	next := s.Clone()
	next.State = model.StateRoundStarting
	next.CurrentRound = 1
	next.UpdatedAt = m.clock.Now()
	return next, nil
}

// BeginRound fetches a word and opens the round for answers. Transient word
// provider failures are retried up to MaxWordAttempts times.
func (m *Machine) BeginRound(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s.State != model.StateRoundStarting {
		return nil, fmt.Errorf("%w: cannot begin a round in %s", model.ErrWrongPhase, s.State)
	}

	w, err := m.drawWord(ctx, s.Settings.Difficulty)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	next := s.Clone()
	next.State = model.StateRoundInProgress
	next.CurrentWord = w.Text
	next.CurrentClue = model.WordClue{
		PartOfSpeech: w.Metadata.PartOfSpeech,
		Definition:   w.Metadata.Definition,
	}
	next.RoundStartTime = &now
	next.RoundEndTime = nil
	next.UpdatedAt = now
	return next, nil
}

func (m *Machine) drawWord(ctx context.Context, difficulty model.Difficulty) (word.Word, error) {
	var lastErr error
	for attempt := 1; attempt <= m.cfg.MaxWordAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return word.Word{}, err
		}
		w, err := m.words.GetWord(ctx, difficulty)
		if err == nil && w.Text == "" {
			err = fmt.Errorf("%w: provider returned an empty word", model.ErrTransientProvider)
		}
		if err == nil {
			return w, nil
		}
		if !model.IsRetryable(err) {
			return word.Word{}, fmt.Errorf("get word: %w", err)
		}
		m.logger.Warn("word provider attempt failed",
			slog.Int("attempt", attempt),
			slog.String("difficulty", string(difficulty)),
			slog.String("error", err.Error()),
		)
		lastErr = err
	}
	return word.Word{}, fmt.Errorf("%w after %d attempts: %w", model.ErrWordUnavailable, m.cfg.MaxWordAttempts, lastErr)
}

// SubmitAnswer scores a player's answer and ends the round. On the final
// round every player's rating is updated against every other player.
func (m *Machine) SubmitAnswer(ctx context.Context, s *model.Session, playerID model.PlayerID, answer string) (*model.Session, error) {
	if s.State != model.StateRoundInProgress {
		return nil, fmt.Errorf("%w: no round in progress", model.ErrWrongPhase)
	}
	if s.GetPlayer(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if s.GetPlayer(playerID).AnsweredRound(s.CurrentRound) {
		return nil, model.ErrAlreadyAnswered
	}

	now := m.clock.Now()
	elapsed := float64(s.Settings.RoundDuration)
	if s.RoundStartTime != nil {
		elapsed = max(0, now.Sub(*s.RoundStartTime).Seconds())
	}
	correct := answersMatch(answer, s.CurrentWord)

	next := s.Clone()
	player := next.GetPlayer(playerID)
	result := scoring.ScoreAnswer(scoring.Answer{
		Correct:        correct,
		ElapsedSeconds: elapsed,
		Streak:         scoring.CurrentStreak(player.RoundStats),
	}, s.Settings.Scoring, s.Settings.Difficulty, s.Settings.RoundDuration)

	player.RoundStats = append(player.RoundStats, model.RoundStat{
		RoundNumber:  s.CurrentRound,
		Score:        result.Score,
		Word:         s.CurrentWord,
		TimeToAnswer: elapsed,
		IsCorrect:    correct,
		Bonuses:      result.Bonuses,
	})
	player.Score += result.Score
	player.LastActive = now
	player.Achievements = append(player.Achievements, scoring.EvaluateAchievements(player, now)...)

	if next.IsFinalRound() {
		ratings := scoring.FinalRatings(next.Players)
		for i := range next.Players {
			next.Players[i].Rating = ratings[next.Players[i].ID]
		}
	}

	next.State = model.StateRoundEnded
	next.RoundEndTime = &now
	next.UpdatedAt = now

	m.logger.Debug("answer scored",
		slog.String("session_id", string(s.ID)),
		slog.String("player_id", string(playerID)),
		slog.Int("round", s.CurrentRound),
		slog.Bool("correct", correct),
		slog.Int("score", result.Score),
	)
	return next, nil
}

// answersMatch compares with Unicode case folding and no other normalisation
func answersMatch(answer, want string) bool {
	if want == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(answer) == fold.String(want)
}

// AdvanceOrComplete moves an ended round to the next round, or completes the
// session after the final round
func (m *Machine) AdvanceOrComplete(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s.State != model.StateRoundEnded {
		return nil, fmt.Errorf("%w: round has not ended", model.ErrWrongPhase)
	}
	if s.IsFinalRound() {
		return m.complete(s), nil
	}

	next := s.Clone()
	next.State = model.StateRoundStarting
	next.CurrentRound++
	clearRound(next)
	next.RoundEndTime = nil
	next.UpdatedAt = m.clock.Now()
	return next, nil
}

// End terminates a session early. Ending a completed session is a no-op and
// returns the input unchanged.
func (m *Machine) End(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s.State == model.StateCompleted {
		return s, nil
	}
	return m.complete(s), nil
}

// complete leaves the meeting in place; the caller releases it once the
// completed session is saved.
func (m *Machine) complete(s *model.Session) *model.Session {
	next := s.Clone()
	next.State = model.StateCompleted
	clearRound(next)
	next.UpdatedAt = m.clock.Now()
	return next
}

func clearRound(s *model.Session) {
	s.CurrentWord = ""
	s.CurrentClue = model.WordClue{}
	s.RoundStartTime = nil
}

// ReleaseAttendee removes an attendee from a meeting. Failures are logged
// and otherwise ignored since the roster is authoritative.
func (m *Machine) ReleaseAttendee(ctx context.Context, meetingRef, attendeeRef string) {
	if err := m.meetings.RemoveAttendee(ctx, meetingRef, attendeeRef); err != nil {
		m.logger.Warn("failed to remove attendee",
			slog.String("meeting_ref", meetingRef),
			slog.String("attendee_ref", attendeeRef),
			slog.String("error", err.Error()),
		)
	}
}

// ReleaseMeeting deletes a meeting. Failures are logged and otherwise
// ignored.
func (m *Machine) ReleaseMeeting(ctx context.Context, meetingRef string) {
	if meetingRef == "" {
		return
	}
	if err := m.meetings.DeleteMeeting(ctx, meetingRef); err != nil {
		m.logger.Warn("failed to delete meeting",
			slog.String("meeting_ref", meetingRef),
			slog.String("error", err.Error()),
		)
	}
}
