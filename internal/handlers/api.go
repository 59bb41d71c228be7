// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/brnbmbr/button-game/internal/audit"
	"github.com/brnbmbr/button-game/internal/lobby"
	"github.com/brnbmbr/button-game/internal/middleware"
)

// NewRouter wires the HTTP surface: the websocket endpoint plus a health
// check and a debug listing of live lobbies.
func NewRouter(logger *logrus.Logger, store *lobby.Store, aud *audit.Publisher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))

	r.Get("/healthz", Healthz)
	r.Get("/lobbies", ListLobbiesHandler(store))
	r.Get("/ws", LobbyWSHandler(logger, store, aud))
	return r
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListLobbiesHandler returns the in-memory directory for debugging. Only
// coarse shape is exposed: keyphrase, seat count, phase. Never the board.
func ListLobbiesHandler(store *lobby.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(store.Summaries())
	}
}
