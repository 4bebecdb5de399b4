// Package filestore persists calibration state and closed-season results as
// (optionally encrypted) JSON files under a data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/season"
	"github.com/okian/sabr/pkg/logger"
	"github.com/okian/sabr/pkg/metrics"
)

const (
	backend       = "file"
	stateFile     = "calibration.json"
	seasonsDir    = "seasons"
	masterKeyFile = "master.key"
)

// Store implements calibration.Store on top of c2FmZQ storage.
type Store struct {
	mu      sync.Mutex
	storage *storage.Storage
	logger  logger.Logger
}

// seasonFile is the on-disk layout of one closed season.
type seasonFile struct {
	SeasonID string           `json:"season_id"`
	SavedAt  time.Time        `json:"saved_at"`
	Players  []season.Summary `json:"players"`
}

// New returns a store rooted at dir. A nil key stores plaintext.
func New(dir string, key crypto.MasterKey) *Store {
	return &Store{
		storage: storage.New(dir, key),
		logger:  logger.Get().Named("filestore"),
	}
}

// OpenMasterKey reads dir/master.key with passphrase, creating it on first use.
// An empty passphrase means no encryption and returns a nil key.
func OpenMasterKey(dir, passphrase string) (crypto.MasterKey, error) {
	if passphrase == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	keyFile := filepath.Join(dir, masterKeyFile)
	mk, err := crypto.ReadMasterKey([]byte(passphrase), keyFile)
	if err == nil {
		return mk, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read master key: %w", err)
	}
	mk, err = crypto.CreateMasterKey()
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	if err := mk.Save([]byte(passphrase), keyFile); err != nil {
		return nil, fmt.Errorf("save master key: %w", err)
	}
	return mk, nil
}

// Load implements calibration.Store.
func (s *Store) Load(ctx context.Context) (*calibration.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("load", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	var st calibration.State
	if err := s.storage.ReadDataFile(stateFile, &st); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, calibration.ErrNoState
		}
		metrics.RecordErrorByComponent("filestore", "read")
		return nil, fmt.Errorf("storage.ReadDataFile: %w", err)
	}
	return &st, nil
}

// Save implements calibration.Store. The file is replaced atomically.
func (s *Store) Save(ctx context.Context, st *calibration.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer observe("save", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SaveDataFile(stateFile, st); err != nil {
		metrics.RecordErrorByComponent("filestore", "write")
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	s.logger.Debug(ctx, "calibration state saved",
		logger.String("status", string(st.Status)),
		logger.Int("history", len(st.History)))
	return nil
}

// WriteSeason stores the final summaries of a closed season, replacing any earlier write.
func (s *Store) WriteSeason(ctx context.Context, seasonID string, players []season.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer observe("write_season", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	f := seasonFile{SeasonID: seasonID, SavedAt: time.Now().UTC(), Players: players}
	if err := s.storage.SaveDataFile(seasonPath(seasonID), &f); err != nil {
		metrics.RecordErrorByComponent("filestore", "write")
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// ReadSeason returns what WriteSeason stored, or os.ErrNotExist.
func (s *Store) ReadSeason(ctx context.Context, seasonID string) ([]season.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("read_season", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	var f seasonFile
	if err := s.storage.ReadDataFile(seasonPath(seasonID), &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("storage.ReadDataFile: %w", err)
	}
	return f.Players, nil
}

// Close is a no-op; every write is already durable.
func (s *Store) Close() error {
	return nil
}

func seasonPath(seasonID string) string {
	return filepath.Join(seasonsDir, url.PathEscape(seasonID)+".json")
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
}
