package mocks

import (
	"fmt"

	"github.com/mcoot/spellgame/internal/dependencies/idgen"
)

// MockIDGenerator returns queued IDs, then sequential "<prefix>-N" IDs
type MockIDGenerator struct {
	Prefix string
	queue  []string
	next   int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a MockIDGenerator with the given fallback prefix
func NewMockIDGenerator(prefix string) *MockIDGenerator {
	return &MockIDGenerator{Prefix: prefix}
}

// NewID returns the next queued ID, or a sequential one when the queue is empty
func (g *MockIDGenerator) NewID() string {
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	g.next++
	return fmt.Sprintf("%s-%d", g.Prefix, g.next)
}

// Queue adds IDs to be returned before falling back to sequential IDs
func (g *MockIDGenerator) Queue(ids ...string) {
	g.queue = append(g.queue, ids...)
}
