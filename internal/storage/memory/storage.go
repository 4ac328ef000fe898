package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	summaries map[model.SummaryID]*model.GameSummary
	order     []model.SummaryID // most recent first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		summaries: make(map[model.SummaryID]*model.GameSummary),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.summaries[summary.ID]; !exists {
		s.order = append([]model.SummaryID{summary.ID}, s.order...)
	}
	s.summaries[summary.ID] = summary
	return nil
}

func (s *Storage) GetSummary(ctx context.Context, id model.SummaryID) (*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[id]
	if !ok {
		return nil, model.ErrSummaryNotFound
	}
	return summary, nil
}

func (s *Storage) ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	result := make([]*model.GameSummary, 0, limit)
	for _, id := range s.order[:limit] {
		result = append(result, s.summaries[id])
	}
	return result, nil
}

func (s *Storage) ListSummariesForGame(ctx context.Context, gameID model.GameID) ([]*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []*model.GameSummary{}
	for _, summary := range s.summaries {
		if summary.GameID == gameID {
			result = append(result, summary)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EndedAt.After(result[j].EndedAt)
	})
	return result, nil
}

func (s *Storage) DeleteSummary(ctx context.Context, id model.SummaryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.summaries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
