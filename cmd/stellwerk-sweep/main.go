// Package main implements the stellwerk-sweep service binary.
// It removes expired authentication records from the store, either as a
// one-shot pass or as a periodic background daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gpluscb/stellwerk/internal/auth"
	"github.com/gpluscb/stellwerk/internal/config"
	"github.com/gpluscb/stellwerk/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		storePath   string
		interval    time.Duration
		once        bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&storePath, "store", "", "Path to the authentication store database (overrides config)")
	flag.DurationVar(&interval, "interval", 0, "Sweep interval (overrides config)")
	flag.BoolVar(&once, "once", false, "Run a single sweep pass and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stellwerk-sweep - Expired credential sweeper\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stellwerk-sweep [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-sweep --store ./auth.db --once\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-sweep --config /etc/stellwerk/config.yaml --interval 5m\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("stellwerk-sweep version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(configFile, storePath, interval)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	authStore, err := store.NewSQLite(cfg.StorePath)
	if err != nil {
		log.Fatalf("Failed to open authentication store: %v", err)
	}
	defer authStore.Close()
	log.Printf("Authentication store opened at: %s", cfg.StorePath)

	sweeper := auth.NewSweeper(authStore, cfg.SweepInterval.Std())

	if once {
		removed, err := sweeper.RunOnce(context.Background())
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		log.Printf("Removed %d expired records", removed)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("Failed to start sweeper: %v", err)
	}
	log.Printf("Sweeper running every %v", cfg.SweepInterval.Std())

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	log.Printf("Received signal: %v", sig)

	if err := sweeper.Stop(); err != nil {
		log.Printf("Shutdown error: %v", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, storePath string, interval time.Duration) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	if storePath != "" {
		cfg.StorePath = storePath
	}
	if interval > 0 {
		cfg.SweepInterval = config.Duration(interval)
	}
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
