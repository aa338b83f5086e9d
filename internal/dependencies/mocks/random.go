package mocks

import (
	"github.com/mcoot/spellgame/internal/dependencies/random"
)

// MockRandom replays queued values and records every bound it was asked for
type MockRandom struct {
	queue []int
	// Bounds holds the n of each Intn call in order
	Bounds []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom that returns 0 until values are queued
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued value modulo n
func (r *MockRandom) Intn(n int) int {
	r.Bounds = append(r.Bounds, n)
	if len(r.queue) == 0 || n <= 0 {
		return 0
	}
	v := r.queue[0]
	r.queue = r.queue[1:]
	return v % n
}

// QueueIntn adds values to be returned by Intn
func (r *MockRandom) QueueIntn(values ...int) {
	r.queue = append(r.queue, values...)
}
