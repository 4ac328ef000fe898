package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/playmoney/internal/api/apierr"
	"github.com/mcoot/playmoney/internal/api/middleware"
	"github.com/mcoot/playmoney/internal/api/request"
	"github.com/mcoot/playmoney/internal/api/response"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/services/session"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(registry *session.Registry, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "game_handler")),
	}
}

// Create handles POST /api/game
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	name, err := playerName(req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	ticket, err := h.registry.Create(name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinGameResponseFromTicket(ticket))
}

// Join handles POST /api/game/{gameId}
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	var req request.JoinGameRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	name, err := playerName(req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	ticket, err := h.registry.Join(gameID, name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinGameResponseFromTicket(ticket))
}

// Get handles GET /api/game/{gameId}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	credential := middleware.MustGetCredential(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	state, err := h.registry.Snapshot(gameID, credential)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Propose handles POST /api/game/{gameId}/events. Any authenticated proposal
// is answered with 202; whether it was admitted shows on the live stream.
func (h *GameHandler) Propose(w http.ResponseWriter, r *http.Request) {
	credential := middleware.MustGetCredential(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	s, _, err := h.registry.Authenticate(gameID, credential)
	if err != nil {
		WriteError(w, err)
		return
	}

	var e model.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		if errors.Is(err, model.ErrUnknownEventType) {
			WriteError(w, err)
			return
		}
		WriteError(w, apierr.NewInvalidEventError("Invalid event body"))
		return
	}

	reason, err := s.Propose(r.Context(), credential, e)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !reason.Admitted() {
		h.logger.Debug("proposal rejected",
			slog.String("game_id", string(gameID)),
			slog.String("event_type", string(e.Type())),
			slog.String("reason", string(reason)))
	}

	response.WriteAccepted(w)
}

// End handles POST /api/game/{gameId}/end. A non-banker's request is
// accepted and ignored, the same as over the WebSocket.
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	credential := middleware.MustGetCredential(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	s, playerID, err := h.registry.Authenticate(gameID, credential)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := s.EndGame(r.Context(), credential); err != nil {
		if !errors.Is(err, model.ErrNotBanker) {
			WriteError(w, err)
			return
		}
		h.logger.Debug("end game rejected",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)))
	}

	response.WriteAccepted(w)
}

// Stream handles GET /api/game/{gameId}/events as a server-sent event stream
func (h *GameHandler) Stream(w http.ResponseWriter, r *http.Request) {
	credential := middleware.MustGetCredential(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	s, err := h.registry.Get(gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	client, err := s.Subscribe(credential)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("sse client connected",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(client.PlayerID())))

	realtime.StreamSSE(w, r, s, client)

	h.logger.Info("sse client disconnected",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(client.PlayerID())))
}

func playerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierr.NewInvalidRequestError("Name is required")
	}
	return name, nil
}
