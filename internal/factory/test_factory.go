package factory

import (
	"time"

	"github.com/mcoot/playmoney/internal/dependencies/mocks"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/services/session"
	"github.com/mcoot/playmoney/internal/storage/memory"
	"github.com/mcoot/playmoney/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDs
}

// TestEpoch is where the mock clock of a TestApp starts
var TestEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestEpoch)
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDs()

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}

// QueueGameIDs makes the next games created get these IDs, in order
func (a *TestApp) QueueGameIDs(ids ...model.GameID) {
	for _, id := range ids {
		a.MockRandom.QueueString(string(id))
	}
}
