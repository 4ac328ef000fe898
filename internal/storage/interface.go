package storage

import (
	"context"

	"github.com/mcoot/playmoney/internal/model"
)

// Storage defines the interface for the archive of ended games.
// Live sessions are never persisted; only their summaries are.
type Storage interface {
	// SaveSummary archives a game that has ended
	SaveSummary(ctx context.Context, summary *model.GameSummary) error
	// GetSummary returns an archived game, or model.ErrSummaryNotFound
	GetSummary(ctx context.Context, id model.SummaryID) (*model.GameSummary, error)
	// ListSummaries returns up to limit archived games, most recently ended first
	ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error)
	// ListSummariesForGame returns every archived game that used the given game ID
	ListSummariesForGame(ctx context.Context, gameID model.GameID) ([]*model.GameSummary, error)
	// DeleteSummary removes an archived game
	DeleteSummary(ctx context.Context, id model.SummaryID) error
}
