package memory

import (
	"testing"

	"github.com/mcoot/spellgame/internal/storage/storagetest"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	storagetest.ContractSuite
	memory *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.memory = New()
	s.Storage = s.memory
	s.ContractSuite.SetupTest()
}

func (s *StorageSuite) TestSessionCount() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, nil, s.NewSession("s1")))
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, nil, s.NewSession("s2")))

	s.Equal(2, s.memory.SessionCount())
}
