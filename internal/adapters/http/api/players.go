package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/sabr/internal/domain/season"
)

// PlayerDependencies defines the interface for per-player reads.
type PlayerDependencies interface {
	Rank(ctx context.Context, seasonID, playerID string) (Entry, error)
	Player(ctx context.Context, seasonID, playerID string) (season.Summary, error)
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /players/{id}?season=S with the full WAR breakdown.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	seasonID, ok := seasonParam(r)
	if !ok {
		writeError(w, NewKind(op, ErrMissingSeason))
		return
	}
	sum, err := h.deps.Player(r.Context(), seasonID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleGetRank handles GET /players/{id}/rank?season=S.
func (h *PlayerHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	seasonID, ok := seasonParam(r)
	if !ok {
		writeError(w, NewKind(op, ErrMissingSeason))
		return
	}
	entry, err := h.deps.Rank(r.Context(), seasonID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
