package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playmoney/internal/api/handler"
	"github.com/mcoot/playmoney/internal/api/middleware"
	"github.com/mcoot/playmoney/internal/api/response"
	rootmiddleware "github.com/mcoot/playmoney/internal/middleware"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/services/session"
	"github.com/mcoot/playmoney/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *session.Registry
	Archive  storage.Storage
	// AllowedOrigins is the CORS allow-list; empty allows any origin
	AllowedOrigins []string
	// ArchiveAdminToken authorises deleting archived games
	ArchiveAdminToken string
	// WebSocket holds the live transport settings
	WebSocket realtime.WSOptions
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Registry, cfg.Logger)
	archiveHandler := handler.NewArchiveHandler(cfg.Archive, cfg.ArchiveAdminToken)
	wsServer := realtime.NewWSServer(cfg.Registry.Lookup, cfg.WebSocket, cfg.Logger)

	// Create middleware
	credentialMiddleware := middleware.Credential()
	loggingMiddleware := rootmiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Creating and joining need no credential
	api.HandleFunc("/game", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/game/{gameId}", gameHandler.Join).Methods(http.MethodPost)

	// Everything else acts as a player of the game
	games := api.PathPrefix("/game/{gameId}").Subrouter()
	games.Use(credentialMiddleware)
	games.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/events", gameHandler.Propose).Methods(http.MethodPost)
	games.HandleFunc("/events", gameHandler.Stream).Methods(http.MethodGet)
	games.HandleFunc("/end", gameHandler.End).Methods(http.MethodPost)

	// WebSocket authenticates with its first message
	api.Handle("/events", wsServer).Methods(http.MethodGet)

	// Archive of ended games
	api.HandleFunc("/archive", archiveHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/archive/{id}", archiveHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/archive/{id}", archiveHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.Registry)).Methods(http.MethodGet)

	return rootmiddleware.CORS(cfg.AllowedOrigins)(r)
}

func healthHandler(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:    "ok",
			LiveGames: registry.Count(),
		})
	}
}
