package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/konekt-network/konekt/internal/api"
	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/app/registration"
	"github.com/konekt-network/konekt/internal/health"
	"github.com/konekt-network/konekt/internal/infra/sqlite"
)

// Daemon is the Konekt runtime. It wires together all services.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Gamification *gamification.Service
	Wizard       *registration.Wizard
	Health       *health.Checker
	Server       *api.Server
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = konektHome()
	}
	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	svc := NewService(db, cfg)
	wizard := registration.NewWizard(db, svc, nil)

	srv := api.NewServer(svc, wizard)
	srv.SetCORSOrigins(cfg.API.CORSOrigins)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealth(checker)

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Gamification: svc,
		Wizard:       wizard,
		Health:       checker,
		Server:       srv,
	}, nil
}

// NewService builds the gamification service described by cfg over db.
// The CLI uses it directly for one-shot commands.
func NewService(db *sqlite.DB, cfg Config) *gamification.Service {
	ttl, _ := parseTTL(cfg.Cache.TTL)
	return gamification.NewService(db, gamification.ServiceConfig{
		Weights: cfg.Scoring,
		Challenges: &gamification.ChallengeGenerator{
			Pool:      gamification.DefaultChallengeGenerator().Pool,
			MinPerDay: cfg.Challenges.MinPerDay,
			MaxPerDay: cfg.Challenges.MaxPerDay,
		},
		CacheSize:     cfg.Cache.Size,
		CacheTTL:      ttl,
		Notifications: gamification.NewNotificationServiceWithPolicy(db, cfg.Notifications),
	})
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		slog.Info("shutting down", "addr", addr)
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("konekt serving", "addr", "http://"+addr, "data_dir", d.Config.Storage.Dir)
	if d.Config.Telemetry.Prometheus {
		slog.Info("metrics enabled", "url", "http://"+addr+"/metrics")
	}

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
