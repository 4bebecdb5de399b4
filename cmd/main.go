package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/okian/sabr/internal/adapters/http/api"
	"github.com/okian/sabr/internal/adapters/http/swagger"
	app "github.com/okian/sabr/internal/app"
	"github.com/okian/sabr/internal/config"
	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/pkg/logger"
	"github.com/okian/sabr/pkg/metrics"
	"github.com/rs/cors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	corsMaxAge                = 86400
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(strings.EqualFold(cfg.LogFormat, "json"))); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "sabr exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// run owns the service and HTTP server until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.EventQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithSeasonGames(cfg.SeasonGames),
		app.WithStores(stores),
		app.WithCalibrationOptions(
			calibration.WithBlendWeight(cfg.CalibrationBlendWeight),
			calibration.WithMinPA(cfg.CalibrationMinPA),
		),
	)
	if err := svc.Start(ctx); err != nil {
		_ = stores.Close()
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx, metrics.Global().RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("calibrationBackend", cfg.CalibrationBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout; a detached context so cancellation of
	// ctx does not cut it short.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
		runErr = errors.Join(runErr, err)
	}

	log.Info(ctx, "server stopped")
	return runErr
}

// newHandler builds the routed, CORS-wrapped and panic-safe HTTP handler.
func newHandler(cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	r := mux.NewRouter()
	swagger.Register(r)
	api.NewServer(svc, cfg.MaxLeaderboardLimit).Register(r)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         corsMaxAge,
	})
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log.Named("http")}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(c.Handler(r))
}

// recoveryLogger routes recovered panics to the structured logger.
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...any) {
	metrics.RecordErrorByComponent("http", "panic")
	l.log.Error(context.Background(), "recovered from panic", logger.String("panic", fmt.Sprint(v...)))
}

// startSystemMetricsUpdater samples runtime metrics every interval until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
