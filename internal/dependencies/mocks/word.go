package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/providers/word"
)

// MockWordProvider returns queued results in order. Once the queue is
// exhausted it returns Fallback.
type MockWordProvider struct {
	mu       sync.Mutex
	results  []wordResult
	Fallback word.Word
	Calls    []model.Difficulty
}

type wordResult struct {
	word word.Word
	err  error
}

// Ensure MockWordProvider implements Provider
var _ word.Provider = (*MockWordProvider)(nil)

// NewMockWordProvider creates a provider that returns fallback when nothing is queued
func NewMockWordProvider(fallback string) *MockWordProvider {
	return &MockWordProvider{Fallback: word.Word{Text: fallback}}
}

func (m *MockWordProvider) GetWord(ctx context.Context, difficulty model.Difficulty) (word.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, difficulty)
	if len(m.results) == 0 {
		return m.Fallback, nil
	}
	r := m.results[0]
	m.results = m.results[1:]
	return r.word, r.err
}

// QueueWord adds a successful result
func (m *MockWordProvider) QueueWord(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, wordResult{word: word.Word{Text: text}})
}

// QueueError adds a failing result
func (m *MockWordProvider) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, wordResult{err: err})
}
