package realtime

import (
	"context"

	"github.com/mcoot/playmoney/internal/model"
)

// Session is the part of a game a live connection drives
type Session interface {
	// Subscribe registers a connection for the credential's player and queues the full log
	Subscribe(credential model.Credential) (*Client, error)
	// Unsubscribe forgets a connection that has gone away
	Unsubscribe(client *Client)
	// Propose submits an event; a rejection is reported but never sent to the client
	Propose(ctx context.Context, credential model.Credential, e model.Event) (model.Reason, error)
	// EndGame ends the game if the credential belongs to a banker
	EndGame(ctx context.Context, credential model.Credential) error
}

// Lookup finds the live session for a game ID
type Lookup func(gameID model.GameID) (Session, error)
