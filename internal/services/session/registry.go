package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/playmoney/internal/dependencies/clock"
	"github.com/mcoot/playmoney/internal/dependencies/ids"
	"github.com/mcoot/playmoney/internal/dependencies/random"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/storage"
)

const (
	// GameIDLength is the length of generated game IDs
	GameIDLength = 6
	// GameIDAlphabet is the characters used in game IDs, easy to type on a phone keypad
	GameIDAlphabet = "0123456789"
	// MaxGameIDAttempts bounds how many IDs are drawn before creation gives up
	MaxGameIDAttempts = 64
)

// Config holds session behaviour settings
type Config struct {
	// SendBufferSize is how many frames a connection may fall behind before it is dropped
	SendBufferSize int
}

// DefaultConfig returns sensible defaults for sessions
func DefaultConfig() Config {
	return Config{
		SendBufferSize: realtime.DefaultSendBufferSize,
	}
}

// Registry holds every live game of the process. Ended games are removed and
// summarised into the archive; their IDs become free for new games.
//
// Lock order: a session's lock may be held while taking the registry's, never the reverse.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.GameID]*Session
	closed   bool

	archiveStore storage.Storage
	clock        clock.Clock
	random       random.Random
	ids          ids.Generator
	cfg          Config
	logger       *slog.Logger
}

// NewRegistry creates a new Registry
func NewRegistry(
	archiveStore storage.Storage,
	clock clock.Clock,
	random random.Random,
	ids ids.Generator,
	cfg Config,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		sessions:     make(map[model.GameID]*Session),
		archiveStore: archiveStore,
		clock:        clock,
		random:       random,
		ids:          ids,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "session")),
	}
}

// Create starts a new game with its creator as the only player and banker
func (r *Registry) Create(name string) (Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Ticket{}, model.ErrShuttingDown
	}

	id, ok := r.freeID()
	if !ok {
		r.logger.Error("no free game ID",
			slog.Int("attempts", MaxGameIDAttempts),
			slog.Int("live_games", len(r.sessions)))
		return Ticket{}, model.ErrNoFreeGameID
	}

	s := newSession(id, r)
	ticket := s.seed(name)
	r.sessions[id] = s

	r.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("player_id", string(ticket.PlayerID)),
		slog.Int("live_games", len(r.sessions)))
	return ticket, nil
}

// freeID draws a game ID not used by any live game. Called with the lock held.
func (r *Registry) freeID() (model.GameID, bool) {
	for range MaxGameIDAttempts {
		id := model.GameID(r.random.String(GameIDLength, GameIDAlphabet))
		if _, exists := r.sessions[id]; !exists {
			return id, true
		}
	}
	return "", false
}

// Get returns the live game with the given ID
func (r *Registry) Get(id model.GameID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return s, nil
}

// Lookup adapts Get for the live transports
func (r *Registry) Lookup(id model.GameID) (realtime.Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Join adds a player to an open game
func (r *Registry) Join(id model.GameID, name string) (Ticket, error) {
	s, err := r.Get(id)
	if err != nil {
		return Ticket{}, err
	}
	return s.AddPlayer(name)
}

// Snapshot returns the current state of a game to one of its players
func (r *Registry) Snapshot(id model.GameID, credential model.Credential) (model.GameState, error) {
	s, err := r.Get(id)
	if err != nil {
		return model.GameState{}, err
	}
	return s.Snapshot(credential)
}

// Authenticate resolves a credential within a game
func (r *Registry) Authenticate(id model.GameID, credential model.Credential) (*Session, model.PlayerID, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, "", err
	}
	playerID, err := s.Authenticate(credential)
	if err != nil {
		return nil, "", err
	}
	return s, playerID, nil
}

// Count returns the number of live games
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close ends every live game and refuses new ones
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	r.closed = true
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		r.archive(ctx, s.shutdown())
	}
	r.logger.Info("registry closed", slog.Int("ended_games", len(sessions)))
}

// remove forgets an ended session. Called with the session's lock held.
func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[s.id] == s {
		delete(r.sessions, s.id)
	}
	r.logger.Info("game removed",
		slog.String("game_id", string(s.id)),
		slog.Int("live_games", len(r.sessions)))
}

// archive stores the summary of an ended game. Called without any session lock.
func (r *Registry) archive(ctx context.Context, summary *model.GameSummary) {
	if summary == nil || r.archiveStore == nil {
		return
	}
	if err := r.archiveStore.SaveSummary(ctx, summary); err != nil {
		r.logger.Error("failed to archive game",
			slog.String("game_id", string(summary.GameID)),
			slog.String("summary_id", string(summary.ID)),
			slog.Any("error", err))
		return
	}
	r.logger.Info("game archived",
		slog.String("game_id", string(summary.GameID)),
		slog.String("summary_id", string(summary.ID)),
		slog.String("reason", string(summary.Reason)),
		slog.Int("events", len(summary.Events)))
}
