// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/sabr/internal/adapters/repository"
	service "github.com/okian/sabr/internal/app"
	"github.com/okian/sabr/internal/domain/grade"
	"github.com/okian/sabr/internal/domain/model"
	"github.com/okian/sabr/internal/domain/position"
	"github.com/okian/sabr/internal/domain/season"
	"github.com/okian/sabr/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxLimit caps GET /leaderboard when no limit is configured.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers.
type Dependencies interface {
	EventDependencies
	LeaderboardDependencies
	PlayerDependencies
	SeasonDependencies
	ReferenceDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	leaderboardHandler *LeaderboardHandler
	playerHandler      *PlayerHandler
	seasonHandler      *SeasonHandler
	referenceHandler   *ReferenceHandler
	toolsHandler       *ToolsHandler
}

// NewServer creates a new API server with all handlers. maxLimit bounds
// leaderboard requests; values below one fall back to DefaultMaxLimit.
func NewServer(deps Dependencies, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		playerHandler:      NewPlayerHandler(deps),
		seasonHandler:      NewSeasonHandler(deps),
		referenceHandler:   NewReferenceHandler(deps),
		toolsHandler:       NewToolsHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events")).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player")).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}/rank", MetricsMiddleware(s.playerHandler.HandleGetRank, "rank")).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{id}/close", MetricsMiddleware(s.seasonHandler.HandleCloseSeason, "close_season")).Methods(http.MethodPost)
	r.HandleFunc("/calibration", MetricsMiddleware(s.seasonHandler.HandleGetCalibration, "calibration")).Methods(http.MethodGet)

	r.HandleFunc("/parks/{name}", MetricsMiddleware(s.referenceHandler.HandleGetPark, "park")).Methods(http.MethodGet)
	r.HandleFunc("/prospects", MetricsMiddleware(s.referenceHandler.HandleGetProspect, "prospect")).Methods(http.MethodGet)
	r.HandleFunc("/leverage", MetricsMiddleware(s.toolsHandler.HandleLeverage, "leverage")).Methods(http.MethodPost)
	r.HandleFunc("/grades", MetricsMiddleware(s.toolsHandler.HandleGrade, "grades")).Methods(http.MethodPost)
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error chain to a status code and a stable error code.
func classify(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal_error"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, season.ErrSeasonClosed):
		return http.StatusConflict, "season_closed"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, season.ErrUnknownSeason),
		errors.Is(err, season.ErrUnknownPlayer):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case isBadRequest(err):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}

var badRequestKinds = []error{
	ErrBadRequest,
	ErrMissingSeason,
	ErrInvalidRatings,
	repository.ErrInvalidLimit,
	model.ErrMissingEventID,
	model.ErrMissingSeasonID,
	model.ErrMissingPlayerID,
	model.ErrUnknownKind,
	model.ErrPayloadMismatch,
	model.ErrOutOfRange,
	position.ErrUnknown,
	grade.ErrUnknownGrade,
}

func isBadRequest(err error) bool {
	for _, kind := range badRequestKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// seasonParam reads the required season query parameter.
func seasonParam(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("season"))
	return id, id != ""
}
