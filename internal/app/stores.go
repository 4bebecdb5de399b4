package service

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/sabr/internal/adapters/store/filestore"
	"github.com/okian/sabr/internal/adapters/store/sqlitestore"
	"github.com/okian/sabr/internal/config"
	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/season"
)

// ResultSink receives the final player summaries of a closed season.
type ResultSink interface {
	WriteSeason(ctx context.Context, seasonID string, players []season.Summary) error
}

// Stores bundles the persistence the service writes through.
type Stores struct {
	Calibration calibration.Store
	// Sink is nil for the memory backend.
	Sink  ResultSink
	Close func() error
}

// MemoryStores keeps calibration state in process and drops season results.
func MemoryStores() Stores {
	return Stores{Calibration: calibration.NewMemoryStore(), Close: func() error { return nil }}
}

// OpenStores opens the calibration backend named by cfg.
func OpenStores(_ context.Context, cfg *config.Config) (Stores, error) {
	switch cfg.CalibrationBackend {
	case config.BackendMemory:
		return MemoryStores(), nil
	case config.BackendSQLite:
		db, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return Stores{}, fmt.Errorf("open sqlite store: %w", err)
		}
		return Stores{Calibration: db, Sink: db, Close: db.Close}, nil
	case config.BackendFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return Stores{}, fmt.Errorf("create data dir: %w", err)
		}
		key, err := filestore.OpenMasterKey(cfg.DataDir, cfg.MasterKey)
		if err != nil {
			return Stores{}, fmt.Errorf("open file store: %w", err)
		}
		fs := filestore.New(cfg.DataDir, key)
		return Stores{Calibration: fs, Sink: fs, Close: fs.Close}, nil
	default:
		return Stores{}, fmt.Errorf("%w: calibration_backend %q", config.ErrInvalidConfig, cfg.CalibrationBackend)
	}
}
