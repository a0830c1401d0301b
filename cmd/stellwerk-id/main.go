// Package main implements the stellwerk-id utility binary.
// It mints snowflake identifiers with the configured worker/process
// assignment and decodes existing identifiers back into their parts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gpluscb/stellwerk/internal/config"
	"github.com/gpluscb/stellwerk/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		workerID    int
		processID   int
		epoch       string
		count       int
		decode      string
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.IntVar(&workerID, "worker-id", -1, "Worker id for minted snowflakes (0-31, overrides config)")
	flag.IntVar(&processID, "process-id", -1, "Process id for minted snowflakes (0-31, overrides config)")
	flag.StringVar(&epoch, "epoch", "", "Namespace epoch as RFC 3339 instant (overrides config)")
	flag.IntVar(&count, "count", 1, "Number of snowflakes to mint")
	flag.StringVar(&decode, "decode", "", "Decode the given snowflake instead of minting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stellwerk-id - Snowflake identifier utility\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stellwerk-id [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-id --worker-id 10 --count 5\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-id --decode 3416757633025310720\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-id --config /etc/stellwerk/config.yaml\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("stellwerk-id version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(configFile, workerID, processID, epoch)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	namespaceEpoch, err := cfg.ParsedEpoch()
	if err != nil {
		log.Fatalf("Invalid epoch: %v", err)
	}

	if decode != "" {
		decodeSnowflake(decode, namespaceEpoch)
		return
	}

	gen, err := cfg.Generator()
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}

	for i := 0; i < count; i++ {
		s, err := gen.Generate()
		if err != nil {
			log.Fatalf("Failed to mint snowflake: %v", err)
		}
		fmt.Println(s)
	}
}

// decodeSnowflake prints the packed fields of an existing identifier.
func decodeSnowflake(raw string, epoch types.Epoch) {
	s, err := types.ParseSnowflake(raw)
	if err != nil {
		log.Fatalf("Failed to parse snowflake: %v", err)
	}

	ts, worker, process, increment := s.Parts()
	fmt.Printf("snowflake:  %s\n", s)
	fmt.Printf("timestamp:  %d ms since epoch (%s)\n", ts, ts.Time(epoch).Format(time.RFC3339Nano))
	fmt.Printf("worker id:  %d\n", worker)
	fmt.Printf("process id: %d\n", process)
	fmt.Printf("increment:  %d\n", increment)
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile string, workerID, processID int, epoch string) (*config.Config, error) {
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

	// Command line flags have the highest priority.
	if workerID >= 0 {
		cfg.WorkerID = uint8(workerID)
	}
	if processID >= 0 {
		cfg.ProcessID = uint8(processID)
	}
	if epoch != "" {
		cfg.Epoch = epoch
	}
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
