package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	epoch, err := cfg.ParsedEpoch()
	if err != nil {
		t.Fatalf("default epoch should parse: %v", err)
	}
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !epoch.Instant().Equal(want) {
		t.Errorf("default epoch = %v, want %v", epoch.Instant(), want)
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/stellwerk"
	cfg.Resolve()

	if cfg.StorePath != filepath.Join("/data/stellwerk", "auth.db") {
		t.Errorf("store path not derived from data dir: %s", cfg.StorePath)
	}

	cfg2 := DefaultConfig()
	cfg2.StorePath = "/elsewhere/auth.db"
	cfg2.Resolve()
	if cfg2.StorePath != "/elsewhere/auth.db" {
		t.Errorf("explicit store path should be kept: %s", cfg2.StorePath)
	}
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"worker id too large", func(c *Config) { c.WorkerID = 32 }},
		{"process id too large", func(c *Config) { c.ProcessID = 32 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad epoch", func(c *Config) { c.Epoch = "not-a-time" }},
		{"negative sweep interval", func(c *Config) { c.SweepInterval = Duration(-time.Minute) }},
		{"negative ttl", func(c *Config) { c.TokenTTL = Duration(-time.Hour) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_Generator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkerID = 10
	cfg.ProcessID = 3

	gen, err := cfg.Generator()
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}
	if gen.WorkerID() != 10 || gen.ProcessID() != 3 {
		t.Errorf("generator assignment mismatch: %d/%d", gen.WorkerID(), gen.ProcessID())
	}

	s, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if s.WorkerID() != 10 || s.ProcessID() != 3 {
		t.Errorf("minted snowflake fields mismatch: %d/%d", s.WorkerID(), s.ProcessID())
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /var/lib/stellwerk
worker_id: 7
process_id: 2
epoch: "2025-01-01T00:00:00Z"
sweep_interval: 1m
token_ttl: 720h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DataDir != "/var/lib/stellwerk" {
		t.Errorf("data_dir = %s", cfg.DataDir)
	}
	if cfg.WorkerID != 7 || cfg.ProcessID != 2 {
		t.Errorf("worker/process = %d/%d", cfg.WorkerID, cfg.ProcessID)
	}
	if cfg.SweepInterval.Std() != time.Minute {
		t.Errorf("sweep_interval = %v", cfg.SweepInterval.Std())
	}
	if cfg.TokenTTL.Std() != 720*time.Hour {
		t.Errorf("token_ttl = %v", cfg.TokenTTL.Std())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFile_RejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("unsupported format should be rejected")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("STELLWERK_WORKER_ID", "5")
	t.Setenv("STELLWERK_TOKEN_TTL", "24h")
	t.Setenv("STELLWERK_STORE_PATH", "/tmp/override.db")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.WorkerID != 5 {
		t.Errorf("worker_id = %d, want 5", cfg.WorkerID)
	}
	if cfg.TokenTTL.Std() != 24*time.Hour {
		t.Errorf("token_ttl = %v, want 24h", cfg.TokenTTL.Std())
	}
	if cfg.StorePath != "/tmp/override.db" {
		t.Errorf("store_path = %s", cfg.StorePath)
	}
}

func TestLoadFromEnv_SkipsUnparseableValues(t *testing.T) {
	t.Setenv("STELLWERK_WORKER_ID", "abc")
	t.Setenv("STELLWERK_PROCESS_ID", "256") // out of uint8 range
	t.Setenv("STELLWERK_TOKEN_TTL", "soon")
	t.Setenv("STELLWERK_HASH_POOL_SIZE", "many")

	cfg := DefaultConfig()
	cfg.WorkerID = 3
	cfg.ProcessID = 4
	cfg.TokenTTL = Duration(time.Hour)
	cfg.HashPoolSize = 2
	LoadFromEnv(cfg)

	if cfg.WorkerID != 3 {
		t.Errorf("worker_id = %d, unparseable override should be skipped", cfg.WorkerID)
	}
	if cfg.ProcessID != 4 {
		t.Errorf("process_id = %d, out-of-range override should be skipped", cfg.ProcessID)
	}
	if cfg.TokenTTL.Std() != time.Hour {
		t.Errorf("token_ttl = %v, unparseable override should be skipped", cfg.TokenTTL.Std())
	}
	if cfg.HashPoolSize != 2 {
		t.Errorf("hash_pool_size = %d, unparseable override should be skipped", cfg.HashPoolSize)
	}
}
