package response

import (
	"time"

	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/services/session"
)

// JoinGameResponse is returned when a game is created or joined
type JoinGameResponse struct {
	GameID    string `json:"gameId"`
	UserToken string `json:"userToken"`
	PlayerID  string `json:"playerId"`
}

// JoinGameResponseFromTicket converts a session.Ticket
func JoinGameResponseFromTicket(t session.Ticket) JoinGameResponse {
	return JoinGameResponse{
		GameID:    string(t.GameID),
		UserToken: string(t.Credential),
		PlayerID:  string(t.PlayerID),
	}
}

// Accepted is returned for proposals. It says nothing about whether the
// proposal was admitted; admitted events arrive on the live stream.
type Accepted struct {
	Status string `json:"status"`
}

// AcceptedResponse returns the body for a 202 response
func AcceptedResponse() Accepted {
	return Accepted{Status: "accepted"}
}

// SummaryListItem is the short form of an archived game
type SummaryListItem struct {
	ID          string    `json:"id"`
	GameID      string    `json:"gameId"`
	Reason      string    `json:"reason"`
	PlayerCount int       `json:"playerCount"`
	EventCount  int       `json:"eventCount"`
	CreatedAt   time.Time `json:"createdAt"`
	EndedAt     time.Time `json:"endedAt"`
}

// SummaryListItemFromModel converts model.GameSummary
func SummaryListItemFromModel(s *model.GameSummary) SummaryListItem {
	return SummaryListItem{
		ID:          string(s.ID),
		GameID:      string(s.GameID),
		Reason:      string(s.Reason),
		PlayerCount: len(s.Players),
		EventCount:  len(s.Events),
		CreatedAt:   s.CreatedAt,
		EndedAt:     s.EndedAt,
	}
}

// SummaryList is the response for listing archived games
type SummaryList struct {
	Summaries []SummaryListItem `json:"summaries"`
}

// SummaryListFromModel converts a slice of summaries
func SummaryListFromModel(summaries []*model.GameSummary) SummaryList {
	items := make([]SummaryListItem, len(summaries))
	for i, s := range summaries {
		items[i] = SummaryListItemFromModel(s)
	}
	return SummaryList{Summaries: items}
}

// Health is the response for the health check
type Health struct {
	Status    string `json:"status"`
	LiveGames int    `json:"liveGames"`
}
