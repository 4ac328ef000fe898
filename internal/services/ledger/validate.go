package ledger

import (
	"math"

	"github.com/mcoot/playmoney/internal/model"
)

// Validate checks that an event makes sense against the current state:
// the players it names exist and any auction it touches is in the right phase.
// Role checks are not done here.
func Validate(state model.GameState, e model.Event) model.Reason {
	switch p := e.Payload.(type) {
	case nil:
		return model.ReasonMissingPayload
	case model.PlayerJoin:
		if p.PlayerID == "" {
			return model.ReasonInvalidEntity
		}
		if state.HasPlayer(p.PlayerID) {
			return model.ReasonDuplicatePlayer
		}
	case model.PlayerDelete:
		return requirePlayer(state, p.PlayerID)
	case model.PlayerNameChange:
		return requirePlayer(state, p.PlayerID)
	case model.PlayerAvatarChange:
		return requirePlayer(state, p.PlayerID)
	case model.PlayerBankerStatusChange:
		return requirePlayer(state, p.PlayerID)
	case model.PlayerConnectionChange:
		return requirePlayer(state, p.PlayerID)
	case model.Transaction:
		if r := requireEntity(state, p.From); !r.Admitted() {
			return r
		}
		if r := requireEntity(state, p.To); !r.Admitted() {
			return r
		}
		if p.From == p.To {
			return model.ReasonNone
		}
		if !fits(balanceOf(state, p.From), -p.Amount) || !fits(balanceOf(state, p.To), p.Amount) {
			return model.ReasonBalanceOverflow
		}
	case model.GameOpenStateChange, model.UseFreeParkingChange, model.UseAuctionsChange:
	case model.AuctionStart:
		if !state.UseAuctions {
			return model.ReasonAuctionsDisabled
		}
		if state.ActiveAuction != nil {
			return model.ReasonAuctionInProgress
		}
	case model.AuctionBid:
		auction := state.ActiveAuction
		if auction == nil {
			return model.ReasonNoActiveAuction
		}
		if r := requirePlayer(state, p.BidderID); !r.Admitted() {
			return r
		}
		if auction.HighestBidderID == nil {
			if p.Amount < auction.StartingPrice {
				return model.ReasonBidTooLow
			}
		} else if p.Amount <= auction.HighestBid {
			return model.ReasonBidTooLow
		}
	case model.AuctionEnd:
		auction := state.ActiveAuction
		if auction == nil {
			return model.ReasonNoActiveAuction
		}
		if !p.Cancelled && auction.HighestBidderID != nil &&
			!fits(balanceOf(state, model.EntityFor(*auction.HighestBidderID)), -auction.HighestBid) {
			return model.ReasonBalanceOverflow
		}
	}
	return model.ReasonNone
}

func requirePlayer(state model.GameState, id model.PlayerID) model.Reason {
	if !state.HasPlayer(id) {
		return model.ReasonUnknownPlayer
	}
	return model.ReasonNone
}

func requireEntity(state model.GameState, entity model.Entity) model.Reason {
	switch {
	case entity == model.EntityBank, entity == model.EntityFreeParking:
		return model.ReasonNone
	case entity.IsPlayer():
		return requirePlayer(state, entity.PlayerID())
	default:
		return model.ReasonInvalidEntity
	}
}

// balanceOf returns what an entity holds. The bank is unlimited and reports 0.
func balanceOf(state model.GameState, entity model.Entity) int64 {
	switch {
	case entity == model.EntityFreeParking:
		return state.FreeParkingBalance
	case entity.IsPlayer():
		if p := state.GetPlayer(entity.PlayerID()); p != nil {
			return p.Balance
		}
	}
	return 0
}

// fits reports whether balance+delta stays within int64
func fits(balance, delta int64) bool {
	if delta > 0 {
		return balance <= math.MaxInt64-delta
	}
	return balance >= math.MinInt64-delta
}
