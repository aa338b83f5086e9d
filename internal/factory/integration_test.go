package factory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellgame/internal/config"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/storage/sqlstore"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

var (
	host   = model.Candidate{ID: "host", Username: "Host Player"}
	guest  = model.Candidate{ID: "guest", Username: "Guest Player"}
	rounds = 3
)

func (s *IntegrationSuite) startGame() model.SessionID {
	c := s.app.Controller
	session, err := c.Create(s.ctx, "", host, model.SettingsOverride{TotalRounds: &rounds})
	s.Require().NoError(err)
	s.Equal("Host Player's game", session.Name)

	_, err = c.Join(s.ctx, session.ID, guest)
	s.Require().NoError(err)
	_, err = c.SetReady(s.ctx, session.ID, host.ID, true)
	s.Require().NoError(err)
	_, err = c.SetReady(s.ctx, session.ID, guest.ID, true)
	s.Require().NoError(err)
	started, err := c.Start(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.StateRoundStarting, started.State)
	return session.ID
}

// Test: Complete game flow from lobby creation to recorded career stats
func (s *IntegrationSuite) TestCompleteGameFlow() {
	c := s.app.Controller
	id := s.startGame()

	answers := []struct {
		player model.PlayerID
		answer string
	}{
		{host.ID, "RHYTHM"},
		{guest.ID, "rythm"},
		{host.ID, "rhythm"},
	}

	var final *model.Session
	for i, a := range answers {
		round, err := c.BeginRound(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(model.StateRoundInProgress, round.State)
		s.Equal(i+1, round.CurrentRound)
		s.Equal(TestWord, round.CurrentWord)

		s.app.MockClock.Advance(3 * time.Second)
		ended, err := c.SubmitAnswer(s.ctx, id, a.player, a.answer)
		s.Require().NoError(err)
		s.Equal(model.StateRoundEnded, ended.State)

		final, err = c.Advance(s.ctx, id)
		s.Require().NoError(err)
	}

	s.Equal(model.StateCompleted, final.State)
	s.Empty(final.CurrentWord)
	s.Len(s.app.MockMeetings.Deleted, 1)

	hostPlayer := final.GetPlayer(host.ID)
	s.Require().NotNil(hostPlayer)
	s.True(hostPlayer.HasAchievement(model.AchievementFirstWin))
	s.True(hostPlayer.HasAchievement(model.AchievementSpeedDemon))
	s.Greater(hostPlayer.Rating, model.BaselineRating)

	stats, err := c.PlayerStats(s.ctx, host.ID)
	s.Require().NoError(err)
	s.Equal(1, stats.GamesWon)
	s.Equal(hostPlayer.Score, stats.TotalScore)

	guestStats, err := c.PlayerStats(s.ctx, guest.ID)
	s.Require().NoError(err)
	s.Equal(0, guestStats.GamesWon)
	s.Equal(0, guestStats.TotalScore)
}

// Test: Transient word failures are retried inside a single request
func (s *IntegrationSuite) TestWordProviderRecovers() {
	id := s.startGame()
	s.app.MockWords.QueueError(fmt.Errorf("%w: flagged", model.ErrTransientProvider))
	s.app.MockWords.QueueWord("necessary")

	round, err := s.app.Controller.BeginRound(s.ctx, id)

	s.Require().NoError(err)
	s.Equal("necessary", round.CurrentWord)
}

// Test: A failed meeting leaves nothing behind
func (s *IntegrationSuite) TestMeetingFailureCreatesNothing() {
	s.app.MockMeetings.CreateErr = fmt.Errorf("%w: meetings down", model.ErrTransientProvider)

	_, err := s.app.Controller.Create(s.ctx, "Bee", host, model.SettingsOverride{})

	s.Require().ErrorIs(err, model.ErrTransientProvider)
	s.Equal(0, s.app.Memory.SessionCount())
}

// Test: Abandoning mid-game releases the meeting and records nothing
func (s *IntegrationSuite) TestAbandonedGame() {
	id := s.startGame()
	_, err := s.app.Controller.BeginRound(s.ctx, id)
	s.Require().NoError(err)

	ended, err := s.app.Controller.End(s.ctx, id)

	s.Require().NoError(err)
	s.Equal(model.StateCompleted, ended.State)
	s.Len(s.app.MockMeetings.Deleted, 1)
	_, err = s.app.Controller.PlayerStats(s.ctx, host.ID)
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "etcd"})

	assert.Error(t, err)
}

func TestNewRequiresBackendConfig(t *testing.T) {
	for _, storageType := range []string{StorageTypeRedis, StorageTypePostgres, StorageTypeSQLite} {
		t.Run(storageType, func(t *testing.T) {
			_, err := New(Config{StorageType: storageType})
			assert.Error(t, err)
		})
	}
}

func TestNewWithSQLite(t *testing.T) {
	sqlCfg := sqlstore.SQLiteConfig(filepath.Join(t.TempDir(), "spella.db"))
	app, err := New(Config{StorageType: StorageTypeSQLite, SQLConfig: &sqlCfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx := context.Background()
	session, err := app.Controller.Create(ctx, "Bee", host, model.SettingsOverride{})
	require.NoError(t, err)

	stored, err := app.Controller.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bee", stored.Name)
	assert.NotEmpty(t, stored.MeetingRef)
}

func TestConfigFromServer(t *testing.T) {
	cfg := ConfigFromServer(config.Server{
		Storage:            config.StoragePostgres,
		DatabaseURL:        "postgres://localhost/spella",
		WordSource:         config.WordSourceDictionaryAPI,
		DictionaryAPIKey:   "key",
		MaxWordAttempts:    4,
		MaxConflictRetries: 6,
	}, nil)

	require.NotNil(t, cfg.SQLConfig)
	assert.Equal(t, sqlstore.DriverPostgres, cfg.SQLConfig.Driver)
	assert.Nil(t, cfg.RedisConfig)
	require.NotNil(t, cfg.DictionaryAPI)
	assert.Equal(t, "key", cfg.DictionaryAPI.DictionaryKey)
	assert.Equal(t, 4, cfg.Machine.MaxWordAttempts)
	assert.Equal(t, 6, cfg.Controller.MaxConflictRetries)
}
