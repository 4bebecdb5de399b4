package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sabr/internal/domain/model"
)

// EventDependencies defines the interface for event ingestion.
type EventDependencies interface {
	Submit(ctx context.Context, e model.Event) (duplicate bool, err error)
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests. Accepted events are applied
// asynchronously; a repeated event id is acknowledged as a duplicate.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var e model.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.Submit(r.Context(), e)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
