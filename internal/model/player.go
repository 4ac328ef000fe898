package model

// PlayerID uniquely identifies a player within a game
type PlayerID string

// Credential is the opaque secret a client presents to act as a player
type Credential string

// Entity is anything that can hold a balance: a player, the bank or free parking
type Entity string

const (
	// EntityBank is the bank, which has an unlimited balance
	EntityBank Entity = "bank"
	// EntityFreeParking is the optional free parking pool
	EntityFreeParking Entity = "freeParking"
)

// EntityFor returns the entity representing a player
func EntityFor(id PlayerID) Entity {
	return Entity(id)
}

// IsPlayer returns true if the entity refers to a player rather than a pool
func (e Entity) IsPlayer() bool {
	return e != EntityBank && e != EntityFreeParking && e != ""
}

// PlayerID returns the player the entity refers to, or "" for the bank and free parking
func (e Entity) PlayerID() PlayerID {
	if !e.IsPlayer() {
		return ""
	}
	return PlayerID(e)
}

// Player is a participant's current standing in a game
type Player struct {
	ID        PlayerID `json:"playerId"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar,omitempty"`
	IsBanker  bool     `json:"banker"`
	Balance   int64    `json:"balance"`
	Connected bool     `json:"connected"`
}
