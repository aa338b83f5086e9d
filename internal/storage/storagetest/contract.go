// Package storagetest holds a behavioural test suite every storage backend
// must pass.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/storage"
	"github.com/stretchr/testify/suite"
)

// ContractSuite exercises the storage.Storage contract. Backends embed it and
// set Storage in their own SetupTest before calling ContractSuite.SetupTest.
type ContractSuite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
	Now     time.Time
}

func (s *ContractSuite) SetupTest() {
	s.Ctx = context.Background()
	s.Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// NewSession builds a lobby session with one host player
func (s *ContractSuite) NewSession(id model.SessionID) *model.Session {
	return &model.Session{
		ID:       id,
		Name:     fmt.Sprintf("game %s", id),
		State:    model.StateLobby,
		HostID:   "alice",
		Settings: model.DefaultSettings(),
		Players: []model.Player{{
			ID:          "alice",
			Username:    "Alice",
			Rating:      model.BaselineRating,
			IsHost:      true,
			AttendeeRef: "att-1",
			JoinedAt:    s.Now,
			LastActive:  s.Now,
		}},
		MeetingRef: "mtg-1",
		CreatedAt:  s.Now,
		UpdatedAt:  s.Now,
	}
}

func (s *ContractSuite) create(id model.SessionID) *model.Session {
	session := s.NewSession(id)
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, nil, session))
	return session
}

func (s *ContractSuite) TestCreateAndGetSession() {
	session := s.create("s1")
	s.Equal(int64(1), session.Version)

	got, err := s.Storage.GetSession(s.Ctx, "s1")

	s.Require().NoError(err)
	s.Equal(session.ID, got.ID)
	s.Equal(session.Name, got.Name)
	s.Equal(int64(1), got.Version)
	s.Equal(model.StateLobby, got.State)
	s.Equal(model.DefaultSettings(), got.Settings)
	s.Require().Len(got.Players, 1)
	s.Equal("Alice", got.Players[0].Username)
	s.True(got.Players[0].IsHost)
	s.Equal("att-1", got.Players[0].AttendeeRef)
	s.True(session.CreatedAt.Equal(got.CreatedAt))
}

func (s *ContractSuite) TestGetSessionNotFound() {
	_, err := s.Storage.GetSession(s.Ctx, "missing")

	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ContractSuite) TestCreateExistingIsConflict() {
	s.create("s1")

	err := s.Storage.SaveSession(s.Ctx, nil, s.NewSession("s1"))

	s.ErrorIs(err, model.ErrConflict)
}

func (s *ContractSuite) TestSaveAdvancesVersion() {
	s.create("s1")
	prev, err := s.Storage.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)

	next := prev.Clone()
	next.State = model.StateRoundStarting
	next.CurrentRound = 1
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, prev, next))
	s.Equal(int64(2), next.Version)

	got, err := s.Storage.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal(model.StateRoundStarting, got.State)
	s.Equal(1, got.CurrentRound)
	s.Equal(int64(2), got.Version)
}

func (s *ContractSuite) TestStaleSaveIsConflict() {
	s.create("s1")
	first, err := s.Storage.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	second, err := s.Storage.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)

	winner := first.Clone()
	winner.Name = "winner"
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, first, winner))

	loser := second.Clone()
	loser.Name = "loser"
	err = s.Storage.SaveSession(s.Ctx, second, loser)

	s.ErrorIs(err, model.ErrConflict)
	got, err := s.Storage.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal("winner", got.Name)
}

func (s *ContractSuite) TestSaveMissingSessionIsNotFound() {
	prev := s.NewSession("missing")
	prev.Version = 1

	err := s.Storage.SaveSession(s.Ctx, prev, prev.Clone())

	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ContractSuite) TestSaveRejectsMismatchedIDs() {
	prev := s.create("s1")

	err := s.Storage.SaveSession(s.Ctx, prev, s.NewSession("s2"))

	s.ErrorIs(err, storage.ErrInvalidSession)
}

func (s *ContractSuite) TestSessionRoundTripsRoundState() {
	prev := s.create("s1")
	start := s.Now.Add(time.Minute)
	next := prev.Clone()
	next.State = model.StateRoundEnded
	next.CurrentRound = 2
	next.CurrentWord = "rhythm"
	next.CurrentClue = model.WordClue{PartOfSpeech: "noun", Definition: "a pattern"}
	next.RoundStartTime = &start
	next.Players[0].Score = 150
	next.Players[0].RoundStats = []model.RoundStat{{RoundNumber: 2, Score: 150, Word: "rhythm", TimeToAnswer: 4.5, IsCorrect: true}}
	next.Players[0].Achievements = []model.Achievement{model.NewAchievement(model.AchievementSpeedDemon, start)}
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, prev, next))

	got, err := s.Storage.GetSession(s.Ctx, "s1")

	s.Require().NoError(err)
	s.Equal("rhythm", got.CurrentWord)
	s.Equal("a pattern", got.CurrentClue.Definition)
	s.Require().NotNil(got.RoundStartTime)
	s.True(start.Equal(*got.RoundStartTime))
	s.Nil(got.RoundEndTime)
	s.Equal(150, got.Players[0].Score)
	s.Require().Len(got.Players[0].RoundStats, 1)
	s.InDelta(4.5, got.Players[0].RoundStats[0].TimeToAnswer, 0.001)
	s.Require().Len(got.Players[0].Achievements, 1)
	s.Equal(model.AchievementSpeedDemon, got.Players[0].Achievements[0].ID)
}

func (s *ContractSuite) TestStoredSessionIsIsolatedFromCaller() {
	session := s.create("s1")
	session.Name = "mutated after save"

	got, err := s.Storage.GetSession(s.Ctx, "s1")

	s.Require().NoError(err)
	s.Equal("game s1", got.Name)
}

func (s *ContractSuite) TestDeleteSession() {
	s.create("s1")

	s.Require().NoError(s.Storage.DeleteSession(s.Ctx, "s1"))

	_, err := s.Storage.GetSession(s.Ctx, "s1")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.NoError(s.Storage.DeleteSession(s.Ctx, "s1"))
}

func (s *ContractSuite) TestListSessionsByState() {
	older := s.NewSession("b-older")
	older.CreatedAt = s.Now.Add(-time.Hour)
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, nil, older))
	s.create("a-newer")
	started := s.create("c-started")
	next := started.Clone()
	next.State = model.StateRoundStarting
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, started, next))

	lobby, err := s.Storage.ListSessions(s.Ctx, model.StateLobby)
	s.Require().NoError(err)
	s.Require().Len(lobby, 2)
	s.Equal(model.SessionID("b-older"), lobby[0].ID)
	s.Equal(model.SessionID("a-newer"), lobby[1].ID)

	starting, err := s.Storage.ListSessions(s.Ctx, model.StateRoundStarting)
	s.Require().NoError(err)
	s.Require().Len(starting, 1)
	s.Equal(model.SessionID("c-started"), starting[0].ID)

	completed, err := s.Storage.ListSessions(s.Ctx, model.StateCompleted)
	s.Require().NoError(err)
	s.Empty(completed)
}

func (s *ContractSuite) TestListSessionsSkipsDeleted() {
	s.create("s1")
	s.Require().NoError(s.Storage.DeleteSession(s.Ctx, "s1"))

	lobby, err := s.Storage.ListSessions(s.Ctx, model.StateLobby)

	s.Require().NoError(err)
	s.Empty(lobby)
}

func (s *ContractSuite) TestRecordResultAccumulates() {
	s.Require().NoError(s.Storage.RecordResult(s.Ctx, model.PlayerResult{
		PlayerID: "alice", Username: "Alice", Score: 300, Rating: 1216, Won: true, SessionID: "s1", At: s.Now,
	}))
	later := s.Now.Add(time.Hour)
	s.Require().NoError(s.Storage.RecordResult(s.Ctx, model.PlayerResult{
		PlayerID: "alice", Username: "Alice B", Score: 100, Rating: 1200, Won: false, SessionID: "s2", At: later,
	}))

	stats, err := s.Storage.GetPlayerStats(s.Ctx, "alice")

	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), stats.PlayerID)
	s.Equal("Alice B", stats.Username)
	s.Equal(2, stats.GamesPlayed)
	s.Equal(1, stats.GamesWon)
	s.Equal(400, stats.TotalScore)
	s.Equal(1200, stats.Rating)
	s.True(later.Equal(stats.UpdatedAt))
}

func (s *ContractSuite) TestGetPlayerStatsNotFound() {
	_, err := s.Storage.GetPlayerStats(s.Ctx, "nobody")

	s.ErrorIs(err, model.ErrStatsNotFound)
}
