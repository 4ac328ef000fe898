// Package ledger folds a game's event log into its current state.
package ledger

import (
	"github.com/mcoot/playmoney/internal/model"
)

// Reduce folds events left to right over initial. The initial state is not modified.
func Reduce(events []model.Event, initial model.GameState) model.GameState {
	state := initial.Clone()
	for _, e := range events {
		state = apply(state, e)
	}
	return state
}

// Apply returns the state after a single event. The given state is not modified.
func Apply(state model.GameState, e model.Event) model.GameState {
	return apply(state.Clone(), e)
}

// StateBefore returns the state just before the nth event (zero-based) was applied
func StateBefore(events []model.Event, n int) model.GameState {
	if n < 0 {
		n = 0
	}
	if n > len(events) {
		n = len(events)
	}
	return Reduce(events[:n], model.DefaultGameState())
}

// apply mutates state, which must already be owned by the caller
func apply(state model.GameState, e model.Event) model.GameState {
	switch p := e.Payload.(type) {
	case model.PlayerJoin:
		state.Players = append(state.Players, model.Player{
			ID:   p.PlayerID,
			Name: p.Name,
		})
	case model.PlayerDelete:
		players := state.Players[:0]
		for _, player := range state.Players {
			if player.ID != p.PlayerID {
				players = append(players, player)
			}
		}
		state.Players = players
	case model.PlayerNameChange:
		if player := state.GetPlayer(p.PlayerID); player != nil {
			player.Name = p.Name
		}
	case model.PlayerAvatarChange:
		if player := state.GetPlayer(p.PlayerID); player != nil {
			player.Avatar = p.Avatar
		}
	case model.PlayerBankerStatusChange:
		if player := state.GetPlayer(p.PlayerID); player != nil {
			player.IsBanker = p.IsBanker
		}
	case model.PlayerConnectionChange:
		if player := state.GetPlayer(p.PlayerID); player != nil {
			player.Connected = p.Connected
		}
	case model.Transaction:
		debit(&state, p.From, p.Amount)
		credit(&state, p.To, p.Amount)
	case model.GameOpenStateChange:
		state.Open = p.Open
	case model.UseFreeParkingChange:
		state.UseFreeParking = p.UseFreeParking
	case model.UseAuctionsChange:
		state.UseAuctions = p.UseAuctions
	case model.AuctionStart:
		state.ActiveAuction = &model.Auction{
			PropertyName:  p.PropertyName,
			StartingPrice: p.StartingPrice,
			HighestBid:    p.StartingPrice,
		}
	case model.AuctionBid:
		if state.ActiveAuction != nil {
			bidder := p.BidderID
			state.ActiveAuction.HighestBid = p.Amount
			state.ActiveAuction.HighestBidderID = &bidder
		}
	case model.AuctionEnd:
		auction := state.ActiveAuction
		if auction != nil && !p.Cancelled && auction.HighestBidderID != nil {
			debit(&state, model.EntityFor(*auction.HighestBidderID), auction.HighestBid)
		}
		state.ActiveAuction = nil
	}
	return state
}

// debit takes amount out of an entity. The bank is unlimited.
func debit(state *model.GameState, from model.Entity, amount int64) {
	switch {
	case from == model.EntityBank:
	case from == model.EntityFreeParking:
		state.FreeParkingBalance -= amount
	case from.IsPlayer():
		if player := state.GetPlayer(from.PlayerID()); player != nil {
			player.Balance -= amount
		}
	}
}

// credit pays amount into an entity. Money paid to the bank leaves the game.
func credit(state *model.GameState, to model.Entity, amount int64) {
	switch {
	case to == model.EntityBank:
	case to == model.EntityFreeParking:
		state.FreeParkingBalance += amount
	case to.IsPlayer():
		if player := state.GetPlayer(to.PlayerID()); player != nil {
			player.Balance += amount
		}
	}
}
