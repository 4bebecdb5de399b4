package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	service "github.com/okian/sabr/internal/app"
)

// SeasonDependencies defines the interface for season lifecycle and calibration.
type SeasonDependencies interface {
	CloseSeason(ctx context.Context, seasonID string) (service.CloseReport, error)
	Calibration(ctx context.Context) (service.CalibrationView, error)
}

// SeasonHandler handles season close and calibration requests.
type SeasonHandler struct {
	deps SeasonDependencies
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(deps SeasonDependencies) *SeasonHandler {
	return &SeasonHandler{deps: deps}
}

// closeResponse flattens the calibration skip reason next to the report.
type closeResponse struct {
	service.CloseReport
	Calibrated bool `json:"calibrated"`
}

// HandleCloseSeason handles POST /seasons/{id}/close. A skipped calibration
// is still a successful close.
func (h *SeasonHandler) HandleCloseSeason(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_season"
	rep, err := h.deps.CloseSeason(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, closeResponse{CloseReport: rep, Calibrated: !rep.Calibration.Skipped})
}

// HandleGetCalibration handles GET /calibration.
func (h *SeasonHandler) HandleGetCalibration(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_calibration"
	view, err := h.deps.Calibration(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
