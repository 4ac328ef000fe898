package model

// MaxAmount bounds the money any single event may move or bid
const MaxAmount int64 = 1_000_000_000_000

// GameID is the short numeric code players type to join a game
type GameID string

// Auction is a property auction in progress
type Auction struct {
	PropertyName    string    `json:"propertyName"`
	StartingPrice   int64     `json:"startingPrice"`
	HighestBid      int64     `json:"highestBid"`
	HighestBidderID *PlayerID `json:"highestBidderId"`
}

// GameState is the result of folding a game's event log
type GameState struct {
	Players            []Player `json:"players"` // join order
	Open               bool     `json:"open"`
	UseFreeParking     bool     `json:"useFreeParking"`
	FreeParkingBalance int64    `json:"freeParkingBalance"`
	UseAuctions        bool     `json:"useAuctions"`
	ActiveAuction      *Auction `json:"activeAuction"`
}

// DefaultGameState returns the state of a game before any event
func DefaultGameState() GameState {
	return GameState{
		Players:        []Player{},
		Open:           true,
		UseFreeParking: true,
	}
}

// GetPlayer returns the player with the given ID, or nil if not found
func (s *GameState) GetPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// HasPlayer returns true if the player is in the game
func (s GameState) HasPlayer(id PlayerID) bool {
	return s.GetPlayer(id) != nil
}

// IsBanker returns true if the player is in the game and is a banker
func (s GameState) IsBanker(id PlayerID) bool {
	p := s.GetPlayer(id)
	return p != nil && p.IsBanker
}

// BankerCount returns the number of players with banker status
func (s GameState) BankerCount() int {
	count := 0
	for _, p := range s.Players {
		if p.IsBanker {
			count++
		}
	}
	return count
}

// TotalPlayerBalance sums the balances of all players
func (s GameState) TotalPlayerBalance() int64 {
	var total int64
	for _, p := range s.Players {
		total += p.Balance
	}
	return total
}

// Clone returns a deep copy so callers can modify it freely
func (s GameState) Clone() GameState {
	players := make([]Player, len(s.Players))
	copy(players, s.Players)
	s.Players = players
	if s.ActiveAuction != nil {
		auction := *s.ActiveAuction
		if auction.HighestBidderID != nil {
			bidder := *auction.HighestBidderID
			auction.HighestBidderID = &bidder
		}
		s.ActiveAuction = &auction
	}
	return s
}
