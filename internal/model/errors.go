package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrGameNotOpen  = errors.New("game is not open")
	ErrGameEnded    = errors.New("game has ended")
	ErrShuttingDown = errors.New("server is shutting down")
	ErrNoFreeGameID = errors.New("no free game ID")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnauthorized   = errors.New("credential is not valid for this game")
	ErrNotBanker      = errors.New("player is not a banker")

	// Event errors
	ErrUnknownEventType = errors.New("unknown event type")

	// Archive errors
	ErrSummaryNotFound = errors.New("game summary not found")
)
