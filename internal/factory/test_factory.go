package factory

import (
	"time"

	"github.com/mcoot/spellgame/internal/dependencies/mocks"
	"github.com/mcoot/spellgame/internal/storage/memory"
	"github.com/mcoot/spellgame/internal/testutil"
)

// TestWord is what the test word provider hands out unless told otherwise
const TestWord = "rhythm"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockIDs      *mocks.MockIDGenerator
	MockMeetings *mocks.MockMeetingProvider
	MockWords    *mocks.MockWordProvider
	Memory       *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDGenerator("session")
	mockMeetings := mocks.NewMockMeetingProvider()
	mockWords := mocks.NewMockWordProvider(TestWord)

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, mockMeetings, mockWords, Config{}, testutil.NopLogger())

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockIDs:      mockIDs,
		MockMeetings: mockMeetings,
		MockWords:    mockWords,
		Memory:       store,
	}
}
