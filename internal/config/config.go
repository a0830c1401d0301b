// Package config provides unified configuration for the Stellwerk identity
// core binaries.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gpluscb/stellwerk/pkg/types"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can use "5m"-style strings
// (or raw nanosecond integers) in both YAML and JSON.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("duration must be a string or integer nanoseconds")
	}
	*d = Duration(n)
	return nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer nanoseconds")
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the deployment configuration shared by the Stellwerk
// binaries.
type Config struct {
	// DataDir is the base directory for all data files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// WorkerID identifies this host in minted snowflakes (0-31). No two
	// processes in the namespace may share the same (worker_id, process_id)
	// pair; this is an operational precondition the core cannot enforce.
	WorkerID uint8 `json:"worker_id" yaml:"worker_id"`

	// ProcessID identifies this process on the host (0-31).
	ProcessID uint8 `json:"process_id" yaml:"process_id"`

	// Epoch is the namespace epoch as an RFC 3339 instant. It is baked into
	// every issued identifier: changing it on a live namespace breaks
	// timestamp decoding of all previously issued ids.
	Epoch string `json:"epoch" yaml:"epoch"`

	// StorePath is the path to the authentication store database. Empty
	// resolves to DataDir/auth.db.
	StorePath string `json:"store_path" yaml:"store_path"`

	// SweepInterval is how often the expiry sweeper runs.
	SweepInterval Duration `json:"sweep_interval" yaml:"sweep_interval"`

	// TokenTTL is the default credential lifetime. Zero means credentials
	// do not expire unless a lifetime is requested explicitly.
	TokenTTL Duration `json:"token_ttl" yaml:"token_ttl"`

	// HashPoolSize caps concurrent Argon2 computations. Zero or less
	// defaults to the number of CPUs.
	HashPoolSize int `json:"hash_pool_size" yaml:"hash_pool_size"`

	// CacheExpectedTokens sizes the negative-cache bloom filter over stored
	// hashes. Zero disables the cache.
	CacheExpectedTokens int `json:"cache_expected_tokens" yaml:"cache_expected_tokens"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		DataDir:             "./data/stellwerk",
		WorkerID:            0,
		ProcessID:           0,
		Epoch:               types.StellwerkEpoch.Instant().Format(time.RFC3339),
		SweepInterval:       Duration(5 * time.Minute),
		TokenTTL:            0,
		HashPoolSize:        0,
		CacheExpectedTokens: 100_000,
	}
}

// Resolve fills in paths derived from DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/stellwerk"
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(c.DataDir, "auth.db")
	}
}

// ParsedEpoch returns the namespace epoch.
func (c *Config) ParsedEpoch() (types.Epoch, error) {
	t, err := time.Parse(time.RFC3339, c.Epoch)
	if err != nil {
		return types.Epoch{}, fmt.Errorf("invalid epoch %q: %w", c.Epoch, err)
	}
	return types.NewEpoch(t), nil
}

// Generator builds the process-wide snowflake generator from the configured
// epoch and worker/process assignment.
func (c *Config) Generator() (*types.Generator, error) {
	epoch, err := c.ParsedEpoch()
	if err != nil {
		return nil, err
	}
	worker, err := types.NewWorkerID(c.WorkerID)
	if err != nil {
		return nil, err
	}
	process, err := types.NewProcessID(c.ProcessID)
	if err != nil {
		return nil, err
	}
	return types.NewGenerator(epoch, worker, process), nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.WorkerID > 31 {
		return fmt.Errorf("worker_id must be between 0 and 31, got %d", c.WorkerID)
	}
	if c.ProcessID > 31 {
		return fmt.Errorf("process_id must be between 0 and 31, got %d", c.ProcessID)
	}
	if _, err := c.ParsedEpoch(); err != nil {
		return err
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("sweep_interval must not be negative, got %v", c.SweepInterval)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("token_ttl must not be negative, got %v", c.TokenTTL)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides. Variables use the
// STELLWERK_ prefix. A variable that fails to parse is skipped and logged;
// the configured value stays in effect.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("STELLWERK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("STELLWERK_WORKER_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.WorkerID = uint8(n)
		} else {
			log.Printf("config: skipping invalid STELLWERK_WORKER_ID %q: %v", v, err)
		}
	}
	if v := os.Getenv("STELLWERK_PROCESS_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.ProcessID = uint8(n)
		} else {
			log.Printf("config: skipping invalid STELLWERK_PROCESS_ID %q: %v", v, err)
		}
	}
	if v := os.Getenv("STELLWERK_EPOCH"); v != "" {
		cfg.Epoch = v
	}
	if v := os.Getenv("STELLWERK_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("STELLWERK_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SweepInterval = Duration(d)
		} else {
			log.Printf("config: skipping invalid STELLWERK_SWEEP_INTERVAL %q: %v", v, err)
		}
	}
	if v := os.Getenv("STELLWERK_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = Duration(d)
		} else {
			log.Printf("config: skipping invalid STELLWERK_TOKEN_TTL %q: %v", v, err)
		}
	}
	if v := os.Getenv("STELLWERK_HASH_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HashPoolSize = n
		} else {
			log.Printf("config: skipping invalid STELLWERK_HASH_POOL_SIZE %q: %v", v, err)
		}
	}
}
