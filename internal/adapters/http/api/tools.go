package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/sabr/internal/domain/grade"
	"github.com/okian/sabr/internal/domain/leverage"
)

const maxRating = 99

// ToolsHandler serves stateless calculators.
type ToolsHandler struct{}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

type leverageResponse struct {
	LI       float64           `json:"li"`
	Category leverage.Category `json:"category"`
	Clutch   bool              `json:"clutch"`
}

// HandleLeverage handles POST /leverage with a game state body.
func (h *ToolsHandler) HandleLeverage(w http.ResponseWriter, r *http.Request) {
	const op = "api.leverage"
	var s leverage.State
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if s.Inning < 1 || s.Outs < 0 || s.Outs > 2 || s.Bases > leverage.Loaded {
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("inning %d outs %d bases %d", s.Inning, s.Outs, s.Bases)))
		return
	}
	switch s.Half {
	case leverage.Top, leverage.Bottom:
	default:
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("half %q", s.Half)))
		return
	}
	li := leverage.Index(s)
	writeJSON(w, http.StatusOK, leverageResponse{LI: li, Category: leverage.Categorize(li), Clutch: leverage.IsClutch(li)})
}

type gradeRequest struct {
	Batter  *grade.BatterRatings  `json:"batter,omitempty"`
	Pitcher *grade.PitcherRatings `json:"pitcher,omitempty"`
}

type gradeResponse struct {
	Grade grade.Grade `json:"grade"`
	Kind  string      `json:"kind"`
}

// HandleGrade handles POST /grades. A body with both batter and pitcher
// ratings is graded as a two-way player.
func (h *ToolsHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	const op = "api.grade"
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, WrapKind(op, ErrInvalidRatings, err))
		return
	}

	var resp gradeResponse
	switch {
	case req.Batter != nil && req.Pitcher != nil:
		resp = gradeResponse{Grade: grade.TwoWayPlayerGrade(*req.Batter, *req.Pitcher), Kind: "two_way"}
	case req.Batter != nil:
		resp = gradeResponse{Grade: grade.PositionPlayerGrade(*req.Batter), Kind: "position_player"}
	case req.Pitcher != nil:
		resp = gradeResponse{Grade: grade.PitcherGrade(*req.Pitcher), Kind: "pitcher"}
	default:
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("batter or pitcher ratings required")))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (g gradeRequest) validate() error {
	var ratings []int
	if b := g.Batter; b != nil {
		ratings = append(ratings, b.Power, b.Contact, b.Speed, b.Fielding, b.Arm)
	}
	if p := g.Pitcher; p != nil {
		ratings = append(ratings, p.Velocity, p.Junk, p.Accuracy)
	}
	for _, v := range ratings {
		if v < 0 || v > maxRating {
			return fmt.Errorf("rating %d", v)
		}
	}
	return nil
}
