package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/okian/sabr/internal/domain/grade"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/internal/domain/position"
)

// ReferenceDependencies defines the lookups backed by reference tables.
type ReferenceDependencies interface {
	Park(name string) (f park.Factors, known bool)
	Prospect(round int, pos position.Position, role grade.PitcherRole) grade.Prospect
}

// ReferenceHandler serves park factors and prospect draws.
type ReferenceHandler struct {
	deps ReferenceDependencies
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(deps ReferenceDependencies) *ReferenceHandler {
	return &ReferenceHandler{deps: deps}
}

type parkResponse struct {
	Name  string       `json:"name"`
	Known bool         `json:"known"`
	Park  park.Factors `json:"factors"`
}

// HandleGetPark handles GET /parks/{name}. Unknown parks answer with neutral
// factors and known=false.
func (h *ReferenceHandler) HandleGetPark(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, known := h.deps.Park(name)
	writeJSON(w, http.StatusOK, parkResponse{Name: name, Known: known, Park: f})
}

// HandleGetProspect handles GET /prospects?round=N&position=SS[&role=SP].
func (h *ReferenceHandler) HandleGetProspect(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prospect"
	q := r.URL.Query()
	round, err := strconv.Atoi(q.Get("round"))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	pos, err := position.Parse(q.Get("position"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	role := grade.PitcherRole(q.Get("role"))
	switch role {
	case "", grade.RoleStarter, grade.RoleReliever, grade.RoleCloser:
	default:
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Prospect(round, pos, role))
}
