package redis

import (
	"fmt"

	"github.com/mcoot/playmoney/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "playmoney"

// summaryKey returns the Redis key for a GameSummary
func summaryKey(id model.SummaryID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, id)
}

// recentSummariesIndexKey returns the Redis key for the LIST of summary IDs, newest first
func recentSummariesIndexKey() string {
	return fmt.Sprintf("%s:idx:summaries", keyPrefix)
}

// summariesForGameIndexKey returns the Redis key for the SET of summary IDs that used a game ID
func summariesForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:summaries_for_game:%s", keyPrefix, gameID)
}
