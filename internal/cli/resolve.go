package cli

import (
	"fmt"
	"strings"

	"github.com/mcoot/playmoney/internal/model"
)

// resolver turns what a user types into players and entities, fetching the
// game state at most once
type resolver struct {
	gameID   string
	self     model.PlayerID
	state    *model.GameState
	getState func(gameID string) (model.GameState, error)
}

func newResolver() *resolver {
	return &resolver{
		gameID:   cfg.GameID,
		self:     model.PlayerID(cfg.PlayerID),
		getState: client.State,
	}
}

// Player accepts "me", a player ID or a player name
func (r *resolver) Player(arg string) (model.PlayerID, error) {
	if strings.EqualFold(arg, "me") && r.self != "" {
		return r.self, nil
	}

	if r.state == nil {
		state, err := r.getState(r.gameID)
		if err != nil {
			return "", err
		}
		r.state = &state
	}

	if r.state.HasPlayer(model.PlayerID(arg)) {
		return model.PlayerID(arg), nil
	}

	var matches []model.PlayerID
	for _, p := range r.state.Players {
		if strings.EqualFold(p.Name, arg) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no player %q in game %s", arg, r.gameID)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d players are called %q, use a player ID", len(matches), arg)
	}
}

// Entity accepts "bank", "free-parking" or anything Player accepts
func (r *resolver) Entity(arg string) (model.Entity, error) {
	switch strings.ToLower(arg) {
	case "bank":
		return model.EntityBank, nil
	case "freeparking", "free-parking", "fp":
		return model.EntityFreeParking, nil
	}

	id, err := r.Player(arg)
	if err != nil {
		return "", err
	}
	return model.EntityFor(id), nil
}
