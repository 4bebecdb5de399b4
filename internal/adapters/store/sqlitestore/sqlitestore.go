// Package sqlitestore persists calibration state, calibration history and
// closed-season player results in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/season"
	"github.com/okian/sabr/pkg/logger"
	"github.com/okian/sabr/pkg/metrics"
	_ "modernc.org/sqlite"
)

const backend = "sqlite"

const schemaV1 = `
CREATE TABLE IF NOT EXISTS calibration_state (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	status          TEXT NOT NULL,
	last_season     TEXT NOT NULL DEFAULT '',
	state_json      TEXT NOT NULL,
	updated_at_unix INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS calibration_history (
	record_id   TEXT PRIMARY KEY,
	season_id   TEXT NOT NULL,
	sample_size INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	reason      TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_season ON calibration_history(season_id);

CREATE TABLE IF NOT EXISTS season_runs (
	run_id     TEXT PRIMARY KEY,
	season_id  TEXT NOT NULL,
	players    INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_season ON season_runs(season_id, created_at);

CREATE TABLE IF NOT EXISTS player_results (
	run_id       TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	season_id    TEXT NOT NULL,
	war          REAL NOT NULL DEFAULT 0.0,
	batting_war  REAL,
	pitching_war REAL,
	fielding_war REAL,
	manager_war  REAL,
	summary_json TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (run_id, player_id)
);
CREATE INDEX IF NOT EXISTS idx_results_season ON player_results(season_id, war);
`

// HistoryRow is one calibration attempt as stored.
type HistoryRow struct {
	RecordID   string    `json:"record_id"`
	SeasonID   string    `json:"season_id"`
	SampleSize int       `json:"sample_size"`
	Skipped    bool      `json:"skipped"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store implements calibration.Store and the season result sink.
type Store struct {
	db     *sql.DB
	newID  func() string
	logger logger.Logger
}

// Open opens (or creates) the database at path and migrates it.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db, newID: uuid.NewString, logger: logger.Get().Named("sqlitestore")}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements calibration.Store.
func (s *Store) Load(ctx context.Context) (*calibration.State, error) {
	defer observe("load", time.Now())

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM calibration_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, calibration.ErrNoState
	}
	if err != nil {
		metrics.RecordErrorByComponent("sqlitestore", "read")
		return nil, fmt.Errorf("load calibration state: %w", err)
	}
	var st calibration.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode calibration state: %w", err)
	}
	return &st, nil
}

// Save implements calibration.Store. The state row and any new history rows
// are written in one transaction.
func (s *Store) Save(ctx context.Context, st *calibration.State) error {
	defer observe("save", time.Now())

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode calibration state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const upsert = `INSERT INTO calibration_state (id, status, last_season, state_json, updated_at_unix)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET status = excluded.status, last_season = excluded.last_season,
	state_json = excluded.state_json, updated_at_unix = excluded.updated_at_unix`
	if _, err := tx.ExecContext(ctx, upsert, string(st.Status), st.LastCalibratedSeason, string(raw), st.UpdatedAt.Unix()); err != nil {
		metrics.RecordErrorByComponent("sqlitestore", "write")
		return fmt.Errorf("save calibration state: %w", err)
	}

	const hist = `INSERT OR IGNORE INTO calibration_history (record_id, season_id, sample_size, skipped, reason, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	for _, r := range st.History {
		if _, err := tx.ExecContext(ctx, hist, r.ID, r.SeasonID, r.SampleSize, r.Skipped, r.Reason, r.At.UnixNano()); err != nil {
			return fmt.Errorf("save calibration history: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// History returns up to limit calibration attempts, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryRow, error) {
	defer observe("history", time.Now())

	const q = `SELECT record_id, season_id, sample_size, skipped, reason, created_at
FROM calibration_history
ORDER BY created_at DESC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var (
			h  HistoryRow
			at int64
		)
		if err := rows.Scan(&h.RecordID, &h.SeasonID, &h.SampleSize, &h.Skipped, &h.Reason, &at); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.CreatedAt = time.Unix(0, at).UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// WriteSeason stores one run of a closed season's player results under a new
// run id. Each call adds a run; ReadSeason returns the latest.
func (s *Store) WriteSeason(ctx context.Context, seasonID string, players []season.Summary) error {
	defer observe("write_season", time.Now())

	runID := s.newID()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO season_runs (run_id, season_id, players, created_at) VALUES (?, ?, ?, ?)`,
		runID, seasonID, len(players), time.Now().UnixNano()); err != nil {
		metrics.RecordErrorByComponent("sqlitestore", "write")
		return fmt.Errorf("save season run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO player_results
(run_id, player_id, season_id, war, batting_war, pitching_war, fielding_war, manager_war, summary_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare player results: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode summary %s: %w", p.PlayerID, err)
		}
		c := components(p)
		if _, err := stmt.ExecContext(ctx, runID, p.PlayerID, seasonID, p.WAR,
			c.batting, c.pitching, c.fielding, c.manager, string(raw)); err != nil {
			return fmt.Errorf("save player result %s: %w", p.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info(ctx, "season results written",
		logger.String("season_id", seasonID),
		logger.String("run_id", runID),
		logger.Int("players", len(players)))
	return nil
}

// ReadSeason returns the latest run's results ordered by WAR desc.
// It returns sql.ErrNoRows if the season was never written.
func (s *Store) ReadSeason(ctx context.Context, seasonID string) ([]season.Summary, error) {
	defer observe("read_season", time.Now())

	var runID string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM season_runs WHERE season_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		seasonID).Scan(&runID)
	if err != nil {
		return nil, fmt.Errorf("latest run for %s: %w", seasonID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT summary_json FROM player_results WHERE run_id = ? ORDER BY war DESC, player_id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query player results: %w", err)
	}
	defer rows.Close()

	var out []season.Summary
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan player result: %w", err)
		}
		var p season.Summary
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode player result: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type componentWAR struct {
	batting, pitching, fielding, manager sql.NullFloat64
}

func components(p season.Summary) componentWAR {
	var c componentWAR
	if p.Batting != nil {
		c.batting = sql.NullFloat64{Float64: p.Batting.WAR, Valid: true}
	}
	if p.Pitching != nil {
		c.pitching = sql.NullFloat64{Float64: p.Pitching.WAR, Valid: true}
	}
	if p.Fielding != nil {
		c.fielding = sql.NullFloat64{Float64: p.Fielding.WAR, Valid: true}
	}
	if p.Manager != nil {
		c.manager = sql.NullFloat64{Float64: p.Manager.WAR, Valid: true}
	}
	return c
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
}
