package model

import "time"

// SummaryID uniquely identifies an archived game; game IDs are reused, summary IDs are not
type SummaryID string

// EndReason records why a game was torn down
type EndReason string

const (
	EndReasonBankerEnded EndReason = "bankerEnded" // a banker ended the game
	EndReasonNoBankers   EndReason = "noBankers"   // the last banker left or was demoted
	EndReasonShutdown    EndReason = "shutdown"    // the server shut down
)

// GameSummary is the archived record of a game that has ended
type GameSummary struct {
	ID                 SummaryID `json:"id"`
	GameID             GameID    `json:"gameId"`
	Reason             EndReason `json:"reason"`
	Players            []Player  `json:"players"`
	FreeParkingBalance int64     `json:"freeParkingBalance"`
	Events             []Event   `json:"events"`
	CreatedAt          time.Time `json:"createdAt"`
	EndedAt            time.Time `json:"endedAt"`
}
