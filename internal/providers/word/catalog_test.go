package word_test

import (
	"context"
	"testing"

	"github.com/mcoot/spellgame/internal/dependencies/mocks"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/providers/word"
	"github.com/stretchr/testify/suite"
)

const testCatalog = `
target_lengths:
  EASY: 4
  HARD: 8
tolerance: 1
words:
  - text: cat
  - text: Tree
    definition: a woody plant
  - text: slurs
    offensive: true
  - text: elephant
  - text: mountains
`

type CatalogSuite struct {
	suite.Suite
	ctx     context.Context
	random  *mocks.MockRandom
	catalog *word.Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.ctx = context.Background()
	s.random = mocks.NewMockRandom()
	catalog, err := word.NewCatalog(s.random)
	s.Require().NoError(err)
	s.catalog = catalog
	s.Require().NoError(s.catalog.LoadYAML([]byte(testCatalog)))
}

func texts(words []word.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func (s *CatalogSuite) TestEmbeddedCatalogHasWordsForEveryDifficulty() {
	catalog, err := word.NewCatalog(s.random)
	s.Require().NoError(err)

	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard, model.DifficultyExpert} {
		s.NotEmpty(catalog.Candidates(d), "difficulty %s", d)
	}
}

func (s *CatalogSuite) TestCandidatesFilterByLength() {
	s.Equal([]string{"cat", "tree", "slurs"}, texts(s.catalog.Candidates(model.DifficultyEasy)))
	s.Equal([]string{"elephant", "mountains"}, texts(s.catalog.Candidates(model.DifficultyHard)))
}

func (s *CatalogSuite) TestCandidatesUnknownDifficulty() {
	s.Empty(s.catalog.Candidates(model.DifficultyExpert))
}

func (s *CatalogSuite) TestGetWordUsesRandomIndex() {
	s.random.QueueIntn(1)

	w, err := s.catalog.GetWord(s.ctx, model.DifficultyEasy)

	s.Require().NoError(err)
	s.Equal("tree", w.Text)
	s.Equal("a woody plant", w.Metadata.Definition)
	s.Equal([]int{len(s.catalog.Candidates(model.DifficultyEasy))}, s.random.Bounds)
}

func (s *CatalogSuite) TestGetWordOffensiveIsTransient() {
	s.random.QueueIntn(2)

	_, err := s.catalog.GetWord(s.ctx, model.DifficultyEasy)

	s.ErrorIs(err, model.ErrTransientProvider)
	s.ErrorIs(err, word.ErrFlagged)
	s.True(model.IsRetryable(err))
}

func (s *CatalogSuite) TestGetWordNoCandidates() {
	_, err := s.catalog.GetWord(s.ctx, model.DifficultyExpert)

	s.ErrorIs(err, word.ErrNoCandidates)
	s.ErrorIs(err, model.ErrWordUnavailable)
	s.False(model.IsRetryable(err))
}

func (s *CatalogSuite) TestLoadWordsKeepsLengthRules() {
	s.catalog.LoadWords([]string{"DOGS", "hippopotamus"})

	s.Equal([]string{"dogs"}, texts(s.catalog.Candidates(model.DifficultyEasy)))
}

func (s *CatalogSuite) TestLoadYAMLRejectsUnknownDifficulty() {
	err := s.catalog.LoadYAML([]byte("target_lengths:\n  IMPOSSIBLE: 3\n"))

	s.Error(err)
}
