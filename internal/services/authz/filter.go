// Package authz decides whether a player may propose an event, based only on
// the event's shape and the player's role.
package authz

import (
	"github.com/mcoot/playmoney/internal/model"
)

// Check returns model.ReasonNone if actor may propose the event, otherwise why not.
// It does not look at game state; see ledger.Validate for that.
func Check(e model.Event, actor model.PlayerID, isBanker bool) model.Reason {
	switch p := e.Payload.(type) {
	case nil:
		return model.ReasonMissingPayload
	case model.PlayerJoin:
		// Players join through the registry, never by proposing
		return model.ReasonNotProposable
	case model.Transaction:
		return checkTransaction(p, actor, isBanker)
	case model.PlayerNameChange:
		return selfOrBanker(p.PlayerID, actor, isBanker)
	case model.PlayerAvatarChange:
		return selfOrBanker(p.PlayerID, actor, isBanker)
	case model.PlayerDelete:
		return selfOrBanker(p.PlayerID, actor, isBanker)
	case model.PlayerConnectionChange:
		if p.PlayerID != actor {
			return model.ReasonNotSelf
		}
		return model.ReasonNone
	case model.AuctionBid:
		if r := checkAmount(p.Amount); !r.Admitted() {
			return r
		}
		return selfOrBanker(p.BidderID, actor, isBanker)
	case model.AuctionStart:
		if p.StartingPrice < 0 {
			return model.ReasonNonPositiveAmount
		}
		if p.StartingPrice > model.MaxAmount {
			return model.ReasonAmountTooLarge
		}
		return bankerOnly(isBanker)
	case model.PlayerBankerStatusChange,
		model.GameOpenStateChange,
		model.UseFreeParkingChange,
		model.UseAuctionsChange,
		model.AuctionEnd:
		return bankerOnly(isBanker)
	}
	return model.ReasonNone
}

func checkTransaction(t model.Transaction, actor model.PlayerID, isBanker bool) model.Reason {
	if r := checkAmount(t.Amount); !r.Admitted() {
		return r
	}
	if !t.From.IsPlayer() {
		return bankerOnly(isBanker)
	}
	if t.From.PlayerID() != actor && !isBanker {
		return model.ReasonNotOwnFunds
	}
	return model.ReasonNone
}

func checkAmount(amount int64) model.Reason {
	switch {
	case amount <= 0:
		return model.ReasonNonPositiveAmount
	case amount > model.MaxAmount:
		return model.ReasonAmountTooLarge
	}
	return model.ReasonNone
}

func selfOrBanker(target, actor model.PlayerID, isBanker bool) model.Reason {
	if target != actor && !isBanker {
		return model.ReasonNotSelfOrBanker
	}
	return model.ReasonNone
}

func bankerOnly(isBanker bool) model.Reason {
	if !isBanker {
		return model.ReasonBankerOnly
	}
	return model.ReasonNone
}
