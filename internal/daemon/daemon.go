package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lingo-quest/lingo/internal/api"
	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/app/progression"
	"github.com/lingo-quest/lingo/internal/health"
	"github.com/lingo-quest/lingo/internal/infra/logging"
	"github.com/lingo-quest/lingo/internal/infra/sqlite"
)

// Daemon is the lingo runtime. It wires the profile service to storage,
// health checks and the HTTP API.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Profile *profile.Service
	Health  *health.Checker
	Server  *api.Server
	Log     *zap.Logger

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates and initializes a Daemon from $LINGO_HOME/config.toml.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon that logs to the configured file and to
// stderr.
func NewWithConfig(cfg Config) (*Daemon, error) {
	return build(cfg, os.Stderr)
}

// OpenOffline creates a Daemon for one-shot CLI commands. It logs to the
// configured file only, so command output stays clean.
func OpenOffline(cfg Config) (*Daemon, error) {
	return build(cfg, nil)
}

func build(cfg Config, console io.Writer) (*Daemon, error) {
	home := lingoHome()

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Console:   console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	// Open SQLite
	db, err := sqlite.Open(home)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tuning, err := progression.LoadTuning(cfg.Economy.TuningFile, home)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load economy tuning: %w", err)
	}

	p, err := profile.Open(context.Background(), profile.Deps{
		Key:    cfg.Profile.Key,
		Store:  db,
		Ledger: db,
		Tuning: tuning,
		Seed:   cfg.Profile.RNGSeed,
		Logger: logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open profile: %w", err)
	}

	checker := health.NewChecker(db, home, db, p.Key(), logger.Named("health"))
	checker.SetInterval(cfg.Profile.HealthInterval())

	srv := api.NewServer(p, checker, logger.Named("api"))
	srv.SetCORSOrigins(cfg.API.CORSOrigins)

	// Enable Prometheus /metrics if configured
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Profile: p,
		Health:  checker,
		Server:  srv,
		Log:     logger,
	}, nil
}

// Serve listens on the configured address and blocks until ctx is done or
// the process receives SIGINT/SIGTERM.
func (d *Daemon) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return d.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (d *Daemon) ServeListener(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	// Health checker (always runs)
	go d.Health.Run(ctx)
	go d.recoveryLoop(ctx, d.Config.Profile.RecoveryTickDuration())

	httpServer := &http.Server{
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			d.Log.Info("shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	addr := ln.Addr().String()
	d.Log.Info("lingo serving",
		zap.String("addr", "http://"+addr),
		zap.String("profile", d.Profile.Key()),
		zap.Bool("metrics", d.Config.Telemetry.Prometheus))

	err := httpServer.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-done
		return err
	}
	<-done
	return nil
}

// recoveryLoop credits pool regeneration on a fixed cadence so recovered
// units are persisted even when no client is polling.
func (d *Daemon) recoveryLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Profile.Tick(ctx); err != nil && ctx.Err() == nil {
				d.Log.Warn("recovery tick failed", zap.Error(err))
			}
		}
	}
}

// Close persists the final pool state and releases all resources. It is
// safe to call more than once.
func (d *Daemon) Close() {
	d.closeOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}
		if d.Profile != nil {
			if err := d.Profile.Tick(context.Background()); err != nil {
				d.Log.Warn("final recovery tick failed", zap.Error(err))
			}
		}
		if d.DB != nil {
			_ = d.DB.Close()
		}
		_ = d.Log.Sync()
	})
}
