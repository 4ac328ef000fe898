package session

import (
	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/playmoney/internal/model"
)

// credentials maps credentials to players. Only digests are kept, so a
// dump of the session never contains a usable bearer token.
type credentials struct {
	players map[[blake2b.Size256]byte]model.PlayerID
}

func newCredentials() *credentials {
	return &credentials{
		players: make(map[[blake2b.Size256]byte]model.PlayerID),
	}
}

func digest(c model.Credential) [blake2b.Size256]byte {
	return blake2b.Sum256([]byte(c))
}

func (c *credentials) add(credential model.Credential, playerID model.PlayerID) {
	c.players[digest(credential)] = playerID
}

func (c *credentials) lookup(credential model.Credential) (model.PlayerID, bool) {
	if credential == "" {
		return "", false
	}
	playerID, ok := c.players[digest(credential)]
	return playerID, ok
}

// revokePlayer forgets every credential of a player
func (c *credentials) revokePlayer(playerID model.PlayerID) {
	for d, id := range c.players {
		if id == playerID {
			delete(c.players, d)
		}
	}
}

func (c *credentials) count() int {
	return len(c.players)
}
