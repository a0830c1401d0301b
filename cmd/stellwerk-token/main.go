// Package main implements the stellwerk-token utility binary.
// It issues bearer credentials against the authentication store and
// validates presented credentials the way the identity core does.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gpluscb/stellwerk/internal/auth"
	"github.com/gpluscb/stellwerk/internal/config"
	serrors "github.com/gpluscb/stellwerk/internal/errors"
	"github.com/gpluscb/stellwerk/internal/store"
	"github.com/gpluscb/stellwerk/internal/token"
	"github.com/gpluscb/stellwerk/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		storePath   string
		issueUser   string
		ttl         time.Duration
		validate    string
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&storePath, "store", "", "Path to the authentication store database (overrides config)")
	flag.StringVar(&issueUser, "issue", "", "Issue a credential for the given user snowflake")
	flag.DurationVar(&ttl, "ttl", 0, "Credential lifetime for --issue (0 uses the configured default)")
	flag.StringVar(&validate, "validate", "", "Validate the given wire-form credential")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stellwerk-token - Bearer credential utility\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stellwerk-token [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-token --store ./auth.db --issue 3416757633025310720 --ttl 720h\n")
		fmt.Fprintf(os.Stderr, "  stellwerk-token --store ./auth.db --validate '3416757633025310720:...:...'\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("stellwerk-token version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if (issueUser == "") == (validate == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --issue or --validate is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(configFile, storePath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	authStore, err := store.NewSQLite(cfg.StorePath)
	if err != nil {
		log.Fatalf("Failed to open authentication store: %v", err)
	}
	defer authStore.Close()

	hasher := token.NewHasherPool(cfg.HashPoolSize)
	ctx := context.Background()

	if issueUser != "" {
		runIssue(ctx, cfg, authStore, hasher, issueUser, ttl)
		return
	}
	runValidate(ctx, authStore, hasher, validate)
}

func runIssue(ctx context.Context, cfg *config.Config, authStore auth.Store, hasher *token.HasherPool, rawUser string, ttl time.Duration) {
	user, err := types.ParseID[types.UserMarker](rawUser)
	if err != nil {
		log.Fatalf("Invalid user snowflake: %v", err)
	}

	if ttl == 0 {
		ttl = cfg.TokenTTL.Std()
	}
	var expiry *types.PositiveDuration
	if ttl != 0 {
		d, err := types.NewPositiveDuration(ttl)
		if err != nil {
			log.Fatalf("Invalid ttl: %v", err)
		}
		expiry = &d
	}

	issuer := auth.NewIssuer(authStore, hasher)
	wire, record, err := issuer.Issue(ctx, user, expiry)
	if err != nil {
		log.Fatalf("Failed to issue credential: %v", err)
	}

	fmt.Println(wire)
	if expiresAt, ok := record.ExpiresAt(); ok {
		fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(os.Stderr, "credential does not expire")
	}
}

func runValidate(ctx context.Context, authStore auth.Store, hasher *token.HasherPool, wire string) {
	validator := auth.NewValidator(authStore, hasher, nil)

	user, err := validator.Validate(ctx, wire)
	if err != nil {
		if serrors.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "unauthorized")
			os.Exit(1)
		}
		log.Fatalf("Validation failed: %v", err)
	}
	fmt.Printf("valid, user %s\n", user)
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, storePath string) (*config.Config, error) {
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
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
