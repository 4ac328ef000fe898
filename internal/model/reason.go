package model

// Reason explains why a proposed event was not admitted. The zero value admits.
type Reason string

const (
	ReasonNone Reason = ""

	// Authorization
	ReasonBankerOnly      Reason = "bankerOnly"
	ReasonNotOwnFunds     Reason = "notOwnFunds"
	ReasonNotSelf         Reason = "notSelf"
	ReasonNotSelfOrBanker Reason = "notSelfOrBanker"
	ReasonNotProposable   Reason = "notProposable"

	// Shape
	ReasonNonPositiveAmount Reason = "nonPositiveAmount"
	ReasonAmountTooLarge    Reason = "amountTooLarge"
	ReasonInvalidEntity     Reason = "invalidEntity"
	ReasonMissingPayload    Reason = "missingPayload"

	// State
	ReasonUnknownPlayer     Reason = "unknownPlayer"
	ReasonDuplicatePlayer   Reason = "duplicatePlayer"
	ReasonAuctionsDisabled  Reason = "auctionsDisabled"
	ReasonAuctionInProgress Reason = "auctionInProgress"
	ReasonNoActiveAuction   Reason = "noActiveAuction"
	ReasonBidTooLow         Reason = "bidTooLow"
	ReasonBalanceOverflow   Reason = "balanceOverflow"
)

// Admitted returns true if the reason does not block the event
func (r Reason) Admitted() bool {
	return r == ReasonNone
}
