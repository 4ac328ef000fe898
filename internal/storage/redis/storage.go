package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := summaryKey(summary.ID)
	gameIndex := summariesForGameIndexKey(summary.GameID)

	// Use pipeline for atomic save + index updates
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.cfg.SummaryTTL)
	pipe.LRem(ctx, recentSummariesIndexKey(), 0, string(summary.ID))
	pipe.LPush(ctx, recentSummariesIndexKey(), string(summary.ID))
	if s.cfg.MaxSummaries > 0 {
		pipe.LTrim(ctx, recentSummariesIndexKey(), 0, s.cfg.MaxSummaries-1)
	}
	pipe.SAdd(ctx, gameIndex, string(summary.ID))
	if s.cfg.SummaryTTL > 0 {
		pipe.Expire(ctx, gameIndex, s.cfg.SummaryTTL) // Keep index TTL in sync
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSummary(ctx context.Context, id model.SummaryID) (*model.GameSummary, error) {
	data, err := s.client.Get(ctx, summaryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSummaryNotFound
		}
		return nil, err
	}

	var summary model.GameSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Storage) ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := s.client.LRange(ctx, recentSummariesIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return s.getMany(ctx, ids)
}

func (s *Storage) ListSummariesForGame(ctx context.Context, gameID model.GameID) ([]*model.GameSummary, error) {
	ids, err := s.client.SMembers(ctx, summariesForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	summaries, err := s.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EndedAt.After(summaries[j].EndedAt)
	})
	return summaries, nil
}

func (s *Storage) DeleteSummary(ctx context.Context, id model.SummaryID) error {
	summary, err := s.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSummaryNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, summaryKey(id))
	pipe.LRem(ctx, recentSummariesIndexKey(), 0, string(id))
	pipe.SRem(ctx, summariesForGameIndexKey(summary.GameID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// getMany fetches summaries in index order, skipping any that have expired
func (s *Storage) getMany(ctx context.Context, ids []string) ([]*model.GameSummary, error) {
	if len(ids) == 0 {
		return []*model.GameSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = summaryKey(model.SummaryID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.GameSummary, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Summary may have expired
		}
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(str), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}

	return summaries, nil
}
