package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/playmoney/internal/dependencies/ids"
	"github.com/mcoot/playmoney/internal/model"
)

// MockIDs is a mock implementation of ids.Generator producing sequential, readable identifiers
type MockIDs struct {
	mu          sync.Mutex
	players     int
	credentials int
	summaries   int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// PlayerID returns player-1, player-2, ...
func (g *MockIDs) PlayerID() model.PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players++
	return model.PlayerID(fmt.Sprintf("player-%d", g.players))
}

// Credential returns token-1, token-2, ...
func (g *MockIDs) Credential() model.Credential {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.credentials++
	return model.Credential(fmt.Sprintf("token-%d", g.credentials))
}

// SummaryID returns summary-1, summary-2, ...
func (g *MockIDs) SummaryID() model.SummaryID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.summaries++
	return model.SummaryID(fmt.Sprintf("summary-%d", g.summaries))
}
