package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/playmoney/internal/dependencies/clock"
	"github.com/mcoot/playmoney/internal/dependencies/ids"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/services/authz"
	"github.com/mcoot/playmoney/internal/services/ledger"
)

// Ticket is what a player needs to act in a game
type Ticket struct {
	GameID     model.GameID     `json:"gameId"`
	Credential model.Credential `json:"userToken"`
	PlayerID   model.PlayerID   `json:"playerId"`
}

// Session owns one game: its event log, the state folded from it, the
// credentials of its players and their live connections. Every admitted
// event passes through a single critical section so the log, the state and
// what subscribers see always agree on order.
type Session struct {
	id        model.GameID
	createdAt time.Time

	mu          sync.Mutex
	events      []model.Event
	state       model.GameState
	credentials *credentials
	hub         *realtime.Hub
	ended       bool

	registry   *Registry
	clock      clock.Clock
	ids        ids.Generator
	bufferSize int
	logger     *slog.Logger
}

func newSession(id model.GameID, registry *Registry) *Session {
	logger := registry.logger.With(slog.String("game_id", string(id)))
	return &Session{
		id:          id,
		createdAt:   registry.clock.Now(),
		state:       model.DefaultGameState(),
		credentials: newCredentials(),
		hub:         realtime.NewHub(id, logger),
		registry:    registry,
		clock:       registry.clock,
		ids:         registry.ids,
		bufferSize:  registry.cfg.SendBufferSize,
		logger:      logger,
	}
}

// seed adds the creator as the first player and makes them banker. It runs
// before the session is shared, so it skips the lock and the banker check.
func (s *Session) seed(name string) Ticket {
	playerID := s.ids.PlayerID()
	now := s.clock.Now()
	for _, p := range []model.Payload{
		model.PlayerJoin{PlayerID: playerID, Name: name},
		model.PlayerBankerStatusChange{PlayerID: playerID, IsBanker: true},
	} {
		e := model.Event{Time: now, ActionedBy: playerID, Payload: p}
		s.events = append(s.events, e)
		s.state = ledger.Apply(s.state, e)
	}
	return s.mintLocked(playerID)
}

// ID returns the public game ID
func (s *Session) ID() model.GameID {
	return s.id
}

// CreatedAt returns when the game was created
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// State returns a copy of the current state
func (s *Session) State() model.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Events returns a copy of the event log
func (s *Session) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...)
}

// Ended returns true once the game has been torn down
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// ClientCount returns the number of live connections
func (s *Session) ClientCount() int {
	return s.hub.ClientCount()
}

// AddPlayer joins a new player while the game is open
func (s *Session) AddPlayer(name string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return Ticket{}, model.ErrGameEnded
	}
	if !s.state.Open {
		return Ticket{}, model.ErrGameNotOpen
	}

	playerID := s.ids.PlayerID()
	// A join never removes a banker, so it cannot end the game
	s.admitLocked(model.Event{
		Time:       s.clock.Now(),
		ActionedBy: playerID,
		Payload:    model.PlayerJoin{PlayerID: playerID, Name: name},
	})

	s.logger.Info("player joined", slog.String("player_id", string(playerID)))
	return s.mintLocked(playerID), nil
}

// Authenticate resolves a credential to the player it belongs to
func (s *Session) Authenticate(credential model.Credential) (model.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticateLocked(credential)
}

// Snapshot returns the current state to a player of the game
func (s *Session) Snapshot(credential model.Credential) (model.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authenticateLocked(credential); err != nil {
		return model.GameState{}, err
	}
	return s.state.Clone(), nil
}

// Subscribe registers a live connection for the credential's player. The
// connection first receives the whole log, then every event admitted after it,
// starting with the player coming online.
func (s *Session) Subscribe(credential model.Credential) (*realtime.Client, error) {
	client, summary, err := s.subscribe(credential)
	s.registry.archive(context.Background(), summary)
	return client, err
}

func (s *Session) subscribe(credential model.Credential) (*realtime.Client, *model.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID, err := s.authenticateLocked(credential)
	if err != nil {
		return nil, nil, err
	}

	initial, err := realtime.InitialEventArray(s.events)
	if err != nil {
		return nil, nil, err
	}

	client := realtime.NewClient(playerID, credential, s.bufferSize, s.clock.Now())
	s.hub.Register(client)
	s.hub.SendTo(client, initial)

	summary := s.admitLocked(model.Event{
		Time:       s.clock.Now(),
		ActionedBy: playerID,
		Payload:    model.PlayerConnectionChange{PlayerID: playerID, Connected: true},
	})
	return client, summary, nil
}

// Unsubscribe forgets a connection that has gone away. The player is marked
// offline only if this was still their current connection.
func (s *Session) Unsubscribe(client *realtime.Client) {
	s.registry.archive(context.Background(), s.unsubscribe(client))
}

func (s *Session) unsubscribe(client *realtime.Client) *model.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || !s.hub.Unregister(client) {
		return nil
	}
	playerID := client.PlayerID()
	if !s.state.HasPlayer(playerID) {
		return nil
	}
	return s.admitLocked(model.Event{
		Time:       s.clock.Now(),
		ActionedBy: playerID,
		Payload:    model.PlayerConnectionChange{PlayerID: playerID, Connected: false},
	})
}

// Propose stamps an event with the current time and the credential's player
// and admits it if that player may make it. A rejected event changes nothing
// and is not broadcast; the reason is returned for the caller to log.
func (s *Session) Propose(ctx context.Context, credential model.Credential, e model.Event) (model.Reason, error) {
	reason, summary, err := s.propose(credential, e)
	s.registry.archive(ctx, summary)
	return reason, err
}

func (s *Session) propose(credential model.Credential, e model.Event) (model.Reason, *model.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID, err := s.authenticateLocked(credential)
	if err != nil {
		return model.ReasonNone, nil, err
	}

	e.Time = s.clock.Now()
	e.ActionedBy = playerID

	reason := authz.Check(e, playerID, s.state.IsBanker(playerID))
	if reason.Admitted() {
		reason = ledger.Validate(s.state, e)
	}
	if !reason.Admitted() {
		s.logger.Debug("event rejected",
			slog.String("player_id", string(playerID)),
			slog.String("event_type", string(e.Type())),
			slog.String("reason", string(reason)))
		return reason, nil, nil
	}

	return model.ReasonNone, s.admitLocked(e), nil
}

// EndGame ends the game for everyone. Only a banker may do this.
func (s *Session) EndGame(ctx context.Context, credential model.Credential) error {
	summary, err := s.endGame(credential)
	s.registry.archive(ctx, summary)
	return err
}

func (s *Session) endGame(credential model.Credential) (*model.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID, err := s.authenticateLocked(credential)
	if err != nil {
		return nil, err
	}
	if !s.state.IsBanker(playerID) {
		return nil, model.ErrNotBanker
	}

	s.logger.Info("game ended by banker", slog.String("player_id", string(playerID)))
	return s.teardownLocked(model.EndReasonBankerEnded), nil
}

// shutdown ends the game because the server is stopping
func (s *Session) shutdown() *model.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil
	}
	return s.teardownLocked(model.EndReasonShutdown)
}

func (s *Session) authenticateLocked(credential model.Credential) (model.PlayerID, error) {
	if s.ended {
		return "", model.ErrGameEnded
	}
	playerID, ok := s.credentials.lookup(credential)
	if !ok || !s.state.HasPlayer(playerID) {
		return "", model.ErrUnauthorized
	}
	return playerID, nil
}

func (s *Session) mintLocked(playerID model.PlayerID) Ticket {
	credential := s.ids.Credential()
	s.credentials.add(credential, playerID)
	return Ticket{GameID: s.id, Credential: credential, PlayerID: playerID}
}

// admitLocked appends an already checked event, folds it and fans it out.
// If no banker is left the game is torn down and its summary returned for
// archiving once the lock is released.
func (s *Session) admitLocked(e model.Event) *model.GameSummary {
	s.events = append(s.events, e)
	s.state = ledger.Apply(s.state, e)

	frame, err := realtime.NewEvent(e)
	if err != nil {
		s.logger.Error("failed to encode event", slog.Any("error", err))
	} else {
		s.hub.Publish(frame)
	}

	if p, ok := e.Payload.(model.PlayerDelete); ok {
		s.credentials.revokePlayer(p.PlayerID)
		s.hub.Disconnect(p.PlayerID)
		s.logger.Info("player removed", slog.String("player_id", string(p.PlayerID)))
	}

	if s.state.BankerCount() == 0 {
		s.logger.Info("no bankers left")
		return s.teardownLocked(model.EndReasonNoBankers)
	}
	return nil
}

// teardownLocked notifies and disconnects every subscriber and removes the
// game from the registry. The session accepts nothing afterwards.
func (s *Session) teardownLocked(reason model.EndReason) *model.GameSummary {
	s.ended = true
	s.hub.Publish(realtime.GameEnd())
	s.hub.Close()
	s.registry.remove(s)

	state := s.state.Clone()
	return &model.GameSummary{
		ID:                 s.ids.SummaryID(),
		GameID:             s.id,
		Reason:             reason,
		Players:            state.Players,
		FreeParkingBalance: state.FreeParkingBalance,
		Events:             append([]model.Event(nil), s.events...),
		CreatedAt:          s.createdAt,
		EndedAt:            s.clock.Now(),
	}
}
