// Package service wires the season ledger, the event pipeline, the
// leaderboard and calibration into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	eventqueue "github.com/okian/sabr/internal/adapters/mq/queue"
	workerpool "github.com/okian/sabr/internal/adapters/mq/worker"
	"github.com/okian/sabr/internal/adapters/repository"
	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/dedupe"
	"github.com/okian/sabr/internal/domain/grade"
	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/model"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/internal/domain/position"
	"github.com/okian/sabr/internal/domain/season"
	"github.com/okian/sabr/internal/domain/war"
	"github.com/okian/sabr/pkg/logger"
	"github.com/okian/sabr/pkg/metrics"
)

const drainPollInterval = 5 * time.Millisecond

// CloseReport is the outcome of closing a season.
type CloseReport struct {
	SeasonID    string             `json:"season_id"`
	Players     int                `json:"players"`
	Calibration calibration.Report `json:"calibration"`
}

// CalibrationView is the calibration state together with the published context.
type CalibrationView struct {
	State   *calibration.State `json:"state"`
	Current *league.Context    `json:"current"`
}

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	ledger      *season.Ledger
	leaderboard repository.Store
	deduper     dedupe.Deduper
	eventQueue  *eventqueue.InMemoryQueue
	workerPool  *workerpool.Pool
	calibration *calibration.Engine
	parks       *park.Deriver

	prospectMu sync.Mutex
	prospects  *grade.Generator
	rng        *rand.Rand

	stores          Stores
	calibrationOpts []calibration.Option

	workerCount int
	queueSize   int
	dedupeSize  int
	seasonGames int

	// closing holds seasons whose close is in progress; Submit rejects them.
	closeMu sync.RWMutex
	closing map[string]struct{}

	// pending counts events accepted but not yet applied.
	pending atomic.Int64
	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100_000,
		dedupeSize:  50_000,
		seasonGames: league.DefaultSeasonGames,
		stores:      MemoryStores(),
		parks:       park.NewDeriver(),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		closing:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start restores calibration state and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting sabr service...")

	if err := grade.ValidateTables(); err != nil {
		return fmt.Errorf("grade tables: %w", err)
	}

	opts := append([]calibration.Option{
		calibration.WithStore(s.stores.Calibration),
		calibration.WithSeasonGames(s.seasonGames),
	}, s.calibrationOpts...)
	engine, err := calibration.New(opts...)
	if err != nil {
		return fmt.Errorf("calibration engine: %w", err)
	}
	if err := engine.Load(ctx); err != nil {
		return err
	}
	s.calibration = engine
	state := engine.State()
	metrics.UpdateCalibrationStatus(statusGauge(state.Status))

	s.ledger = season.NewLedger(season.WithParks(s.parks))
	s.leaderboard = repository.NewTreapStore()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.prospects = grade.NewGenerator(s.rng)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, workerpool.ProcessorFunc(s.process))
	// Workers outlive the start context; Stop closes the queue and drains them.
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "sabr service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("calibration", string(state.Status)),
		logger.String("lastCalibratedSeason", state.LastCalibratedSeason),
	)
	return nil
}

// Stop drains the queue, stops the workers and closes the stores.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping sabr service...")

	var errs []error
	if err := s.workerPool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.stores.Close != nil {
		if err := s.stores.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stores: %w", err))
		}
	}
	s.started = false
	s.logger.Info(ctx, "sabr service stopped", logger.Int64("processed", s.workerPool.Processed()))
	return errors.Join(errs...)
}

// Submit validates an event and queues it. A duplicate event id is reported
// and dropped; a full queue returns ErrBackpressure and forgets the id so the
// client can retry.
func (s *Service) Submit(ctx context.Context, e model.Event) (duplicate bool, err error) { //nolint:gocritic // hugeParam: events travel by value
	if !s.isStarted() {
		return false, ErrNotStarted
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		metrics.RecordEventRejected("invalid")
		return false, err
	}

	// The read lock spans the check and the pending increment so a close that
	// starts afterwards waits for this event.
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if _, closing := s.closing[e.SeasonID]; closing || s.ledger.Closed(e.SeasonID) {
		metrics.RecordEventRejected("season_closed")
		return false, fmt.Errorf("%w: %s", season.ErrSeasonClosed, e.SeasonID)
	}
	if s.deduper.SeenAndRecord(ctx, e.EventID) {
		metrics.RecordEventDuplicate()
		return true, nil
	}

	s.pending.Add(1)
	if !s.eventQueue.Enqueue(ctx, e) {
		s.pending.Add(-1)
		s.deduper.Unrecord(ctx, e.EventID)
		metrics.RecordEventRejected("backpressure")
		return false, ErrBackpressure
	}
	return false, nil
}

// process applies one event and refreshes the leaderboard rows it touched.
func (s *Service) process(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: events travel by value
	defer s.pending.Add(-1)

	touched, err := s.ledger.Apply(e)
	if err != nil {
		metrics.RecordEventRejected(rejectReason(err))
		s.logger.Warn(ctx, "event rejected",
			logger.String("eventId", e.EventID),
			logger.String("kind", string(e.Kind)),
			logger.Error(err))
		return err
	}
	metrics.RecordEventProcessed()

	lctx := s.calibration.Current()
	for _, id := range touched {
		if _, err := s.refresh(ctx, e.SeasonID, id, lctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) refresh(ctx context.Context, seasonID, playerID string, lctx *league.Context) (season.Summary, error) {
	start := time.Now()
	sum, err := s.ledger.Summary(seasonID, playerID, lctx, s.seasonGames)
	if err != nil {
		return season.Summary{}, err
	}
	metrics.RecordWARLatency("summary", float64(time.Since(start).Microseconds())/1000)

	if _, err := s.leaderboard.Upsert(ctx, seasonID, playerID, sum.WAR); err != nil {
		return season.Summary{}, fmt.Errorf("leaderboard %s: %w", playerID, err)
	}
	return sum, nil
}

// Drain waits until every accepted event has been applied.
func (s *Service) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for s.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// CloseSeason finishes a season: new events for it are refused, pending events
// are applied, calibration runs on its totals, every player is re-valued
// against the resulting context and the results are persisted. A close that
// fails before the ledger closes the season reopens it.
func (s *Service) CloseSeason(ctx context.Context, seasonID string) (CloseReport, error) {
	if !s.isStarted() {
		return CloseReport{}, ErrNotStarted
	}
	s.closeMu.Lock()
	s.closing[seasonID] = struct{}{}
	s.closeMu.Unlock()
	defer func() {
		s.closeMu.Lock()
		delete(s.closing, seasonID)
		s.closeMu.Unlock()
	}()

	if err := s.Drain(ctx); err != nil {
		return CloseReport{}, err
	}
	if err := s.ledger.Close(seasonID); err != nil {
		return CloseReport{}, err
	}
	agg, err := s.ledger.Aggregate(seasonID)
	if err != nil {
		return CloseReport{}, err
	}

	log := s.logger.Named("calibration")
	report, err := s.calibration.RecordSeason(ctx, agg)
	if err != nil {
		metrics.RecordCalibrationRun("failed")
		log.Error(ctx, "calibration failed", logger.String("seasonId", seasonID), logger.Error(err))
		return CloseReport{SeasonID: seasonID, Calibration: report}, fmt.Errorf("calibrate %s: %w", seasonID, err)
	}
	if report.Skipped {
		metrics.RecordCalibrationRun("skipped")
		log.Warn(ctx, "calibration skipped",
			logger.String("seasonId", seasonID),
			logger.Int("pa", agg.PA),
			logger.String("reason", report.Reason))
	} else {
		metrics.RecordCalibrationRun("calibrated")
		log.Info(ctx, "season calibrated",
			logger.String("seasonId", seasonID),
			logger.Int("pa", agg.PA),
			logger.String("confidence", string(report.Next.Confidence)))
	}
	metrics.UpdateCalibrationStatus(statusGauge(report.Status))

	lctx := s.calibration.Current()
	players := s.ledger.Players(seasonID)
	summaries := make([]season.Summary, 0, len(players))
	for _, id := range players {
		sum, err := s.refresh(ctx, seasonID, id, lctx)
		if err != nil {
			return CloseReport{}, err
		}
		summaries = append(summaries, sum)
	}
	metrics.UpdateTotalPlayers(s.leaderboard.Count(ctx, seasonID))

	if s.stores.Sink != nil {
		if err := s.stores.Sink.WriteSeason(ctx, seasonID, summaries); err != nil {
			metrics.RecordErrorByComponent("service", "sink")
			return CloseReport{}, fmt.Errorf("write season results: %w", err)
		}
	}
	metrics.RecordSeasonClosed()

	return CloseReport{SeasonID: seasonID, Players: len(summaries), Calibration: report}, nil
}

// TopN returns the season's leaderboard head.
func (s *Service) TopN(ctx context.Context, seasonID string, n int) ([]repository.Entry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	return s.leaderboard.TopN(ctx, seasonID, n)
}

// Rank returns a player's leaderboard row.
func (s *Service) Rank(ctx context.Context, seasonID, playerID string) (repository.Entry, error) {
	if !s.isStarted() {
		return repository.Entry{}, ErrNotStarted
	}
	return s.leaderboard.Rank(ctx, seasonID, playerID)
}

// Player evaluates a player's season against the published context.
func (s *Service) Player(_ context.Context, seasonID, playerID string) (season.Summary, error) {
	if !s.isStarted() {
		return season.Summary{}, ErrNotStarted
	}
	return s.ledger.Summary(seasonID, playerID, s.calibration.Current(), s.seasonGames)
}

// Calibration returns the calibration state and published context.
func (s *Service) Calibration(_ context.Context) (CalibrationView, error) {
	if !s.isStarted() {
		return CalibrationView{}, ErrNotStarted
	}
	return CalibrationView{State: s.calibration.State(), Current: s.calibration.Current()}, nil
}

// Park returns the factors for a stadium. Unknown names get neutral factors
// and known is false.
func (s *Service) Park(name string) (f park.Factors, known bool) {
	_, known = s.parks.Lookup(name)
	return s.parks.Derive(name), known
}

// Prospect draws one prospect for a draft round.
func (s *Service) Prospect(round int, pos position.Position, role grade.PitcherRole) grade.Prospect {
	s.prospectMu.Lock()
	defer s.prospectMu.Unlock()
	if s.prospects == nil {
		s.prospects = grade.NewGenerator(s.rng)
	}
	return s.prospects.Prospect(round, pos, role)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"seasonGames": s.seasonGames,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	queueLen := s.eventQueue.Len(ctx)
	seasons := s.ledger.Seasons()
	players := make(map[string]int, len(seasons))
	for _, id := range seasons {
		players[id] = s.leaderboard.Count(ctx, id)
	}
	state := s.calibration.State()

	stats["queueLength"] = queueLen
	stats["pending"] = s.pending.Load()
	stats["processed"] = s.workerPool.Processed()
	stats["dedupeEntries"] = s.deduper.Size()
	stats["seasons"] = seasons
	stats["players"] = players
	stats["calibrationStatus"] = state.Status
	stats["lastCalibratedSeason"] = state.LastCalibratedSeason

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateWorkerCount(s.workerCount)
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func statusGauge(st calibration.Status) int {
	switch st {
	case calibration.StatusCalibrating:
		return metrics.StatusCalibrating
	case calibration.StatusCalibrated:
		return metrics.StatusCalibrated
	default:
		return metrics.StatusUncalibrated
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, season.ErrSeasonClosed):
		return "season_closed"
	case errors.Is(err, war.ErrInvalidDifficulty), errors.Is(err, war.ErrInvalidPlayType), errors.Is(err, war.ErrInvalidPosition):
		return "invalid_fielding"
	case errors.Is(err, model.ErrOutOfRange):
		return "out_of_range"
	default:
		return "invalid"
	}
}
