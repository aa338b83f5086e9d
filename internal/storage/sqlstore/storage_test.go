package sqlstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellgame/internal/storage/storagetest"
)

type SQLiteSuite struct {
	storagetest.ContractSuite
	sql *Storage
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}

func (s *SQLiteSuite) SetupTest() {
	store, err := Open(SQLiteConfig(filepath.Join(s.T().TempDir(), "spella.db")))
	s.Require().NoError(err)
	s.sql = store
	s.Storage = store
	s.ContractSuite.SetupTest()
}

func (s *SQLiteSuite) TearDownTest() {
	_ = s.sql.Close()
}

func (s *SQLiteSuite) TestReopenKeepsData() {
	path := filepath.Join(s.T().TempDir(), "reopen.db")
	first, err := Open(SQLiteConfig(path))
	s.Require().NoError(err)
	s.Require().NoError(first.SaveSession(s.Ctx, nil, s.NewSession("s1")))
	s.Require().NoError(first.Close())

	second, err := Open(SQLiteConfig(path))
	s.Require().NoError(err)
	defer second.Close()

	got, err := second.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal(int64(1), got.Version)
}

// PostgresSuite runs against a real database when SPELLA_TEST_POSTGRES_URL is set
type PostgresSuite struct {
	storagetest.ContractSuite
	sql *Storage
}

func TestPostgresSuite(t *testing.T) {
	if os.Getenv("SPELLA_TEST_POSTGRES_URL") == "" {
		t.Skip("SPELLA_TEST_POSTGRES_URL not set")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupTest() {
	store, err := Open(PostgresConfig(os.Getenv("SPELLA_TEST_POSTGRES_URL")))
	s.Require().NoError(err)
	_, err = store.db.Exec(`TRUNCATE sessions, player_stats`)
	s.Require().NoError(err)
	s.sql = store
	s.Storage = store
	s.ContractSuite.SetupTest()
}

func (s *PostgresSuite) TearDownTest() {
	_ = s.sql.Close()
}

func (s *SQLiteSuite) TestRebindLeavesSQLiteQueries() {
	s.Equal("SELECT ? AND ?", s.sql.rebind("SELECT ? AND ?"))
}

func TestRebindPostgres(t *testing.T) {
	store := &Storage{driver: DriverPostgres}

	assert.Equal(t, "a = $1 AND b = $2", store.rebind("a = ? AND b = ?"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql", DSN: "x"})

	assert.Error(t, err)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(SQLiteConfig(" "))

	assert.Error(t, err)
}
