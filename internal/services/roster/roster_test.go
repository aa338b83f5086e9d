package roster

import (
	"testing"
	"time"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/stretchr/testify/suite"
)

type RosterSuite struct {
	suite.Suite
	now     time.Time
	session *model.Session
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, new(RosterSuite))
}

func (s *RosterSuite) SetupTest() {
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.session = &model.Session{
		ID:       "session-1",
		State:    model.StateLobby,
		HostID:   "alice",
		Settings: model.DefaultSettings(),
		Players: []model.Player{
			{ID: "alice", Username: "Alice", IsHost: true, Rating: model.BaselineRating},
		},
	}
}

func (s *RosterSuite) join(id model.PlayerID) {
	next, err := AddPlayer(s.session, model.Candidate{ID: id, Username: string(id)}, "att-"+string(id), s.now)
	s.Require().NoError(err)
	s.session = next
}

func (s *RosterSuite) assertSingleHost(session *model.Session) {
	hosts := 0
	for _, p := range session.Players {
		if p.IsHost {
			hosts++
			s.Equal(p.ID, session.HostID)
		}
	}
	if len(session.Players) == 0 {
		s.Equal(0, hosts)
		s.Empty(session.HostID)
		return
	}
	s.Equal(1, hosts)
}

// AddPlayer tests

func (s *RosterSuite) TestAddPlayerAppends() {
	next, err := AddPlayer(s.session, model.Candidate{ID: "bob", Username: "Bob"}, "att-bob", s.now)

	s.Require().NoError(err)
	s.Require().Len(next.Players, 2)
	bob := next.Players[1]
	s.Equal(model.PlayerID("bob"), bob.ID)
	s.Equal("Bob", bob.Username)
	s.False(bob.IsHost)
	s.False(bob.IsReady)
	s.Equal(model.BaselineRating, bob.Rating)
	s.Equal("att-bob", bob.AttendeeRef)
	s.Equal(s.now, bob.JoinedAt)
	s.assertSingleHost(next)

	// Input is untouched
	s.Len(s.session.Players, 1)
}

func (s *RosterSuite) TestAddPlayerRosterFull() {
	s.join("bob")
	s.join("carol")
	s.join("dave")

	_, err := AddPlayer(s.session, model.Candidate{ID: "erin"}, "", s.now)

	s.ErrorIs(err, model.ErrRosterFull)
}

func (s *RosterSuite) TestAddPlayerDuplicate() {
	_, err := AddPlayer(s.session, model.Candidate{ID: "alice"}, "", s.now)

	s.ErrorIs(err, model.ErrDuplicatePlayer)
}

func (s *RosterSuite) TestAddPlayerWrongPhase() {
	s.session.State = model.StateRoundInProgress

	_, err := AddPlayer(s.session, model.Candidate{ID: "bob"}, "", s.now)

	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *RosterSuite) TestAddPlayerToEmptyRosterBecomesHost() {
	s.session.Players = nil
	s.session.HostID = ""

	next, err := AddPlayer(s.session, model.Candidate{ID: "bob"}, "", s.now)

	s.Require().NoError(err)
	s.True(next.Players[0].IsHost)
	s.assertSingleHost(next)
}

// RemovePlayer tests

func (s *RosterSuite) TestRemoveHostReassignsToSecondJoiner() {
	s.join("bob")
	s.join("carol")

	next, err := RemovePlayer(s.session, "alice", s.now)

	s.Require().NoError(err)
	s.Require().Len(next.Players, 2)
	s.Equal(model.PlayerID("bob"), next.HostID)
	s.True(next.Players[0].IsHost)
	s.False(next.Players[1].IsHost)
	s.assertSingleHost(next)

	// Input is untouched
	s.Equal(model.PlayerID("alice"), s.session.HostID)
	s.Len(s.session.Players, 3)
}

func (s *RosterSuite) TestRemoveNonHostKeepsHost() {
	s.join("bob")
	s.join("carol")

	next, err := RemovePlayer(s.session, "bob", s.now)

	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), next.HostID)
	s.Equal([]model.PlayerID{"alice", "carol"}, []model.PlayerID{next.Players[0].ID, next.Players[1].ID})
	s.assertSingleHost(next)
}

func (s *RosterSuite) TestRemoveLastPlayerLeavesNoHost() {
	next, err := RemovePlayer(s.session, "alice", s.now)

	s.Require().NoError(err)
	s.Empty(next.Players)
	s.assertSingleHost(next)
}

func (s *RosterSuite) TestRemovePlayerNotFound() {
	_, err := RemovePlayer(s.session, "nobody", s.now)

	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RosterSuite) TestRemoveAllowedMidRound() {
	s.join("bob")
	s.session.State = model.StateRoundInProgress

	next, err := RemovePlayer(s.session, "alice", s.now)

	s.Require().NoError(err)
	s.Equal(model.PlayerID("bob"), next.HostID)
}

func (s *RosterSuite) TestRemoveRejectedWhenCompleted() {
	s.session.State = model.StateCompleted

	_, err := RemovePlayer(s.session, "alice", s.now)

	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *RosterSuite) TestHostInvariantAcrossSequences() {
	for _, id := range []model.PlayerID{"bob", "carol", "dave"} {
		s.join(id)
		s.assertSingleHost(s.session)
	}
	for _, id := range []model.PlayerID{"carol", "alice", "dave", "bob"} {
		next, err := RemovePlayer(s.session, id, s.now)
		s.Require().NoError(err)
		s.assertSingleHost(next)
		s.session = next
	}
}

// SetReady tests

func (s *RosterSuite) TestSetReady() {
	later := s.now.Add(time.Minute)

	next, err := SetReady(s.session, "alice", true, later)

	s.Require().NoError(err)
	s.True(next.Players[0].IsReady)
	s.Equal(later, next.Players[0].LastActive)
	s.False(s.session.Players[0].IsReady)
}

func (s *RosterSuite) TestSetReadyIdempotent() {
	first, err := SetReady(s.session, "alice", true, s.now)
	s.Require().NoError(err)

	second, err := SetReady(first, "alice", true, s.now)

	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *RosterSuite) TestSetReadyPlayerNotFound() {
	_, err := SetReady(s.session, "nobody", true, s.now)

	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RosterSuite) TestSetReadyWrongPhase() {
	s.session.State = model.StateRoundEnded

	_, err := SetReady(s.session, "alice", true, s.now)

	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *RosterSuite) TestAllReady() {
	s.join("bob")
	s.False(AllReady(s.session))

	s.session.Players[0].IsReady = true
	s.session.Players[1].IsReady = true
	s.True(AllReady(s.session))
}
