package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/sabr/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sabr.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given no file and no environment", t, func() {
		cfg, err := config.Load(ctx)

		convey.Convey("Then the defaults load", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CalibrationBackend, convey.ShouldEqual, config.BackendFile)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("SABR_ADDR", ":8080")
		t.Setenv("SABR_QUEUE_SIZE", "5000")
		t.Setenv("SABR_WORKER_COUNT", "4")
		t.Setenv("SABR_CALIBRATION_BLEND_WEIGHT", "0.5")
		t.Setenv("SABR_CALIBRATION_BACKEND", "memory")
		t.Setenv("SABR_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("SABR_SHUTDOWN_TIMEOUT", "5s")

		cfg, err := config.Load(ctx)

		convey.Convey("Then they replace the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 5000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.CalibrationBlendWeight, convey.ShouldEqual, 0.5)
			convey.So(cfg.CalibrationBackend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 5*time.Second)
		})
	})
}

func TestLoadFileAndEnv(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a YAML file and an env override", t, func() {
		path := writeConfig(t, `
# season settings
addr: ":9090"
season_games: 60
calibration_backend: sqlite
sqlite_path: /tmp/sabr-test.db
calibration_min_pa: 2500
`)
		t.Setenv("SABR_CONFIG", path)
		t.Setenv("SABR_SEASON_GAMES", "162")

		cfg, err := config.Load(ctx)

		convey.Convey("Then the file applies and env wins over it", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.CalibrationBackend, convey.ShouldEqual, config.BackendSQLite)
			convey.So(cfg.CalibrationMinPA, convey.ShouldEqual, 2500)
			convey.So(cfg.SeasonGames, convey.ShouldEqual, 162)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a file that does not exist", t, func() {
		t.Setenv("SABR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := config.Load(ctx)

		convey.Convey("Then loading fails", func() {
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestLoadMalformedYAML(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given malformed YAML", t, func() {
		t.Setenv("SABR_CONFIG", writeConfig(t, "addr: [unclosed"))

		_, err := config.Load(ctx)

		convey.Convey("Then loading fails", func() {
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestLoadBadNumber(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a non-numeric queue size", t, func() {
		t.Setenv("SABR_QUEUE_SIZE", "lots")

		_, err := config.Load(ctx)

		convey.Convey("Then decoding fails", func() {
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestLoadOutOfRange(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an out of range value", t, func() {
		t.Setenv("SABR_CALIBRATION_BLEND_WEIGHT", "3")

		_, err := config.Load(ctx)

		convey.Convey("Then validation fails", func() {
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
