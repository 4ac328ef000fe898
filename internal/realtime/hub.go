package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/playmoney/internal/model"
)

// Hub tracks the live connections of a single game, at most one per player.
// Callers serialise publishing so frames reach every client in log order.
type Hub struct {
	gameID  model.GameID
	clients map[model.PlayerID]*Client
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewHub creates a new Hub for a game
func NewHub(gameID model.GameID, logger *slog.Logger) *Hub {
	return &Hub{
		gameID:  gameID,
		clients: make(map[model.PlayerID]*Client),
		logger:  logger.With(slog.String("game_id", string(gameID))),
	}
}

// Register makes client the player's current connection. A previous connection
// for the same player is superseded but left open.
func (h *Hub) Register(client *Client) (previous *Client) {
	h.mu.Lock()
	previous = h.clients[client.playerID]
	h.clients[client.playerID] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("player_id", string(client.playerID)),
		slog.Bool("superseded", previous != nil),
		slog.Int("total_clients", clientCount))
	return previous
}

// Unregister removes client if it is still the player's current connection
// and reports whether it was
func (h *Hub) Unregister(client *Client) bool {
	h.mu.Lock()
	current, ok := h.clients[client.playerID]
	if !ok || current != client {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, client.playerID)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client unregistered",
		slog.String("player_id", string(client.playerID)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
	return true
}

// Current returns the player's current connection, or nil
func (h *Hub) Current(playerID model.PlayerID) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[playerID]
}

// Publish queues a frame for every client. A client that cannot keep up is
// closed; its transport then unsubscribes it.
func (h *Hub) Publish(frame Frame) {
	h.mu.RLock()
	sentCount := 0
	droppedCount := 0
	for _, client := range h.clients {
		if client.enqueue(frame) {
			sentCount++
			continue
		}
		droppedCount++
		h.logger.Warn("client dropped - buffer full or closed",
			slog.String("player_id", string(client.playerID)))
	}
	h.mu.RUnlock()
	if droppedCount > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.String("message_type", string(frame.Type)),
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}
}

// SendTo queues a frame for a single client, registered or not
func (h *Hub) SendTo(client *Client, frame Frame) bool {
	return client.enqueue(frame)
}

// Disconnect closes and forgets the player's current connection
func (h *Hub) Disconnect(playerID model.PlayerID) {
	h.mu.Lock()
	client, ok := h.clients[playerID]
	delete(h.clients, playerID)
	h.mu.Unlock()

	if ok {
		client.Close()
		h.logger.Info("client disconnected", slog.String("player_id", string(playerID)))
	}
}

// Close closes every connection
func (h *Hub) Close() {
	h.mu.Lock()
	clientCount := len(h.clients)
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	h.mu.Unlock()
	h.logger.Info("hub closed", slog.Int("disconnected_clients", clientCount))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
