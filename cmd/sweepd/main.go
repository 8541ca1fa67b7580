// Sweepd is the content-filtering decision daemon for media playback
// clients.
//
// It serves a stateless decision engine over HTTP: given caption or
// transcript text and a user's filtering preferences, it answers with one
// playback-control action (none, mute, fast_forward, skip). User and
// preference records live in SQLite or PostgreSQL.
//
// Usage:
//
//	# Start with defaults (sqlite, port 8080)
//	sweepd
//
//	# Configure via file or environment
//	sweepd -config /etc/sweepd/config.yaml
//	SERVER_PORT=9090 DATABASE_DRIVER=postgres DATABASE_DSN=... sweepd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sweepd/internal/config"
	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/httpapi"
	"github.com/fyrsmithlabs/sweepd/internal/logging"
	"github.com/fyrsmithlabs/sweepd/internal/rules"
	"github.com/fyrsmithlabs/sweepd/internal/store"
	"github.com/fyrsmithlabs/sweepd/internal/store/db"
	"github.com/fyrsmithlabs/sweepd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sweepd\nVersion:    %s\nCommit:     %s\nBuild Date: %s\n", version, gitCommit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

// run starts the sweepd server and blocks until the context is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Sync(logger)

	logger.Info("starting sweepd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver))

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	driver, err := db.NewDriver(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}
	st := store.New(driver)
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	ruleset, err := loadRuleset(cfg, logger)
	if err != nil {
		return err
	}

	eng, err := engine.New(
		&httpapi.PreferencesProvider{Store: st},
		ruleset,
		logger.Named("engine"),
		engine.WithLookupTimeout(cfg.Engine.LookupTimeout.Duration()),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	if cfg.Engine.RulesPath != "" && cfg.Engine.WatchRules {
		watcher, err := rules.NewWatcher(cfg.Engine.RulesPath, func(rs *engine.Ruleset) {
			if err := eng.SetRules(rs); err != nil {
				logger.Error("rejected reloaded ruleset", zap.Error(err))
			}
		}, logger.Named("rules"))
		if err != nil {
			return fmt.Errorf("failed to watch rules file: %w", err)
		}
		defer watcher.Close()
		go watcher.Run(ctx)
		logger.Info("watching rules file", zap.String("path", cfg.Engine.RulesPath))
	}

	srv, err := httpapi.NewServer(eng, st, logger.Named("http"), &httpapi.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// loadRuleset loads the configured rules file, or the built-in ruleset when
// none is configured.
func loadRuleset(cfg *config.Config, logger *zap.Logger) (*engine.Ruleset, error) {
	if cfg.Engine.RulesPath == "" {
		logger.Info("using built-in ruleset")
		return rules.Default(), nil
	}
	ruleset, err := rules.Load(cfg.Engine.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", cfg.Engine.RulesPath, err)
	}
	logger.Info("loaded ruleset", zap.String("path", cfg.Engine.RulesPath))
	return ruleset, nil
}
