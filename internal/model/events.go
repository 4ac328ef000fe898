package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies the variant of an event on the wire
type EventType string

const (
	// Player events
	EventPlayerJoin               EventType = "playerJoin"
	EventPlayerDelete             EventType = "playerDelete"
	EventPlayerNameChange         EventType = "playerNameChange"
	EventPlayerAvatarChange       EventType = "playerAvatarChange"
	EventPlayerBankerStatusChange EventType = "playerBankerStatusChange"
	EventPlayerConnectionChange   EventType = "playerConnectionChange"

	// Money events
	EventTransaction EventType = "transaction"

	// Game settings events
	EventGameOpenStateChange  EventType = "gameOpenStateChange"
	EventUseFreeParkingChange EventType = "useFreeParkingChange"
	EventUseAuctionsChange    EventType = "useAuctionsChange"

	// Auction events
	EventAuctionStart EventType = "auctionStart"
	EventAuctionBid   EventType = "auctionBid"
	EventAuctionEnd   EventType = "auctionEnd"
)

// TimeLayout is the timestamp format used on the wire (UTC, millisecond precision)
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Event is a single entry in a game's append-only log
type Event struct {
	Time       time.Time
	ActionedBy PlayerID
	Payload    Payload
}

// Type returns the variant of the event, or "" if it has no payload
func (e Event) Type() EventType {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Type()
}

// Payload is the variant-specific part of an event. The set of variants is closed.
//
//sumtype:decl
type Payload interface {
	Type() EventType
	payload()
}

// PlayerJoin adds a player with a zero balance
type PlayerJoin struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
}

// PlayerDelete removes a player from the game
type PlayerDelete struct {
	PlayerID PlayerID `json:"playerId"`
}

// PlayerNameChange renames a player
type PlayerNameChange struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
}

// PlayerAvatarChange changes a player's avatar
type PlayerAvatarChange struct {
	PlayerID PlayerID `json:"playerId"`
	Avatar   string   `json:"avatar"`
}

// PlayerBankerStatusChange grants or revokes banker status
type PlayerBankerStatusChange struct {
	PlayerID PlayerID `json:"playerId"`
	IsBanker bool     `json:"isBanker"`
}

// PlayerConnectionChange records a player's live connection coming or going
type PlayerConnectionChange struct {
	PlayerID  PlayerID `json:"playerId"`
	Connected bool     `json:"connected"`
}

// Transaction moves money between two entities
type Transaction struct {
	From   Entity `json:"from"`
	To     Entity `json:"to"`
	Amount int64  `json:"amount"`
}

// GameOpenStateChange opens or closes the game to new players
type GameOpenStateChange struct {
	Open bool `json:"open"`
}

// UseFreeParkingChange toggles the free parking house rule
type UseFreeParkingChange struct {
	UseFreeParking bool `json:"useFreeParking"`
}

// UseAuctionsChange toggles property auctions
type UseAuctionsChange struct {
	UseAuctions bool `json:"useAuctions"`
}

// AuctionStart opens an auction for a property
type AuctionStart struct {
	PropertyName  string `json:"propertyName"`
	StartingPrice int64  `json:"startingPrice"`
}

// AuctionBid raises the highest bid of the active auction
type AuctionBid struct {
	BidderID PlayerID `json:"bidderId"`
	Amount   int64    `json:"amount"`
}

// AuctionEnd closes the active auction; unless cancelled the highest bidder pays the bank
type AuctionEnd struct {
	Cancelled bool `json:"cancelled"`
}

func (PlayerJoin) Type() EventType               { return EventPlayerJoin }
func (PlayerDelete) Type() EventType             { return EventPlayerDelete }
func (PlayerNameChange) Type() EventType         { return EventPlayerNameChange }
func (PlayerAvatarChange) Type() EventType       { return EventPlayerAvatarChange }
func (PlayerBankerStatusChange) Type() EventType { return EventPlayerBankerStatusChange }
func (PlayerConnectionChange) Type() EventType   { return EventPlayerConnectionChange }
func (Transaction) Type() EventType              { return EventTransaction }
func (GameOpenStateChange) Type() EventType      { return EventGameOpenStateChange }
func (UseFreeParkingChange) Type() EventType     { return EventUseFreeParkingChange }
func (UseAuctionsChange) Type() EventType        { return EventUseAuctionsChange }
func (AuctionStart) Type() EventType             { return EventAuctionStart }
func (AuctionBid) Type() EventType               { return EventAuctionBid }
func (AuctionEnd) Type() EventType               { return EventAuctionEnd }

func (PlayerJoin) payload()               {}
func (PlayerDelete) payload()             {}
func (PlayerNameChange) payload()         {}
func (PlayerAvatarChange) payload()       {}
func (PlayerBankerStatusChange) payload() {}
func (PlayerConnectionChange) payload()   {}
func (Transaction) payload()              {}
func (GameOpenStateChange) payload()      {}
func (UseFreeParkingChange) payload()     {}
func (UseAuctionsChange) payload()        {}
func (AuctionStart) payload()             {}
func (AuctionBid) payload()               {}
func (AuctionEnd) payload()               {}

// envelope holds the fields shared by every event on the wire
type envelope struct {
	Type       EventType `json:"type"`
	Time       string    `json:"time"`
	ActionedBy PlayerID  `json:"actionedBy"`
}

// MarshalJSON flattens the envelope and payload into a single tagged object
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, ErrUnknownEventType
	}

	body, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	head, err := json.Marshal(envelope{
		Type:       e.Payload.Type(),
		Time:       formatTime(e.Time),
		ActionedBy: e.ActionedBy,
	})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(head, &fields); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

// UnmarshalJSON decodes a tagged event object
func (e *Event) UnmarshalJSON(data []byte) error {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	payload, err := decodePayload(head.Type, data)
	if err != nil {
		return err
	}

	var ts time.Time
	if head.Time != "" {
		ts, err = time.Parse(time.RFC3339Nano, head.Time)
		if err != nil {
			return fmt.Errorf("invalid event time %q: %w", head.Time, err)
		}
	}

	*e = Event{
		Time:       ts,
		ActionedBy: head.ActionedBy,
		Payload:    payload,
	}
	return nil
}

func decodePayload(t EventType, data []byte) (Payload, error) {
	switch t {
	case EventPlayerJoin:
		return decodeAs[PlayerJoin](data)
	case EventPlayerDelete:
		return decodeAs[PlayerDelete](data)
	case EventPlayerNameChange:
		return decodeAs[PlayerNameChange](data)
	case EventPlayerAvatarChange:
		return decodeAs[PlayerAvatarChange](data)
	case EventPlayerBankerStatusChange:
		return decodeAs[PlayerBankerStatusChange](data)
	case EventPlayerConnectionChange:
		return decodeAs[PlayerConnectionChange](data)
	case EventTransaction:
		return decodeAs[Transaction](data)
	case EventGameOpenStateChange:
		return decodeAs[GameOpenStateChange](data)
	case EventUseFreeParkingChange:
		return decodeAs[UseFreeParkingChange](data)
	case EventUseAuctionsChange:
		return decodeAs[UseAuctionsChange](data)
	case EventAuctionStart:
		return decodeAs[AuctionStart](data)
	case EventAuctionBid:
		return decodeAs[AuctionBid](data)
	case EventAuctionEnd:
		return decodeAs[AuctionEnd](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
}

func decodeAs[T Payload](data []byte) (Payload, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
