package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/ghcrawl/internal/model"
)

// TestNewConfig documents the defaults. Changing a default must be a
// deliberate change to this test.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default base URL is github.com", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://github.com" {
			t.Errorf("expected https://github.com, got %q", cfg.BaseURL)
		}
	})

	t.Run("default category is repositories", func(t *testing.T) {
		t.Parallel()
		if cfg.Category != model.CategoryRepositories {
			t.Errorf("expected repositories, got %q", cfg.Category)
		}
	})

	t.Run("default retry budget is 3 attempts of 5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxAttempts != 3 {
			t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("default backoff is 1 to 3 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.BackoffMin != time.Second || cfg.BackoffMax != 3*time.Second {
			t.Errorf("expected 1s..3s, got %v..%v", cfg.BackoffMin, cfg.BackoffMax)
		}
	})

	t.Run("default concurrency is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 10 {
			t.Errorf("expected 10, got %d", cfg.Concurrency)
		}
	})

	t.Run("default rotation is per attempt", func(t *testing.T) {
		t.Parallel()
		if cfg.Rotation != model.RotationPerAttempt {
			t.Errorf("expected per-attempt, got %q", cfg.Rotation)
		}
	})

	t.Run("default proxy list is proxylist.txt", func(t *testing.T) {
		t.Parallel()
		if cfg.ProxyFile != "proxylist.txt" {
			t.Errorf("expected proxylist.txt, got %q", cfg.ProxyFile)
		}
	})

	t.Run("history is saved to the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected saving to %q, got save=%v dir=%q", XDGDataDir(), cfg.SaveToDB, cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "zero attempts", modify: func(c *Config) { c.MaxAttempts = 0 }, wantErr: ErrInvalidMaxAttempts},
		{name: "negative backoff", modify: func(c *Config) { c.BackoffMin = -time.Second }, wantErr: ErrInvalidBackoff},
		{name: "inverted backoff", modify: func(c *Config) { c.BackoffMin, c.BackoffMax = 3*time.Second, time.Second }, wantErr: ErrInvalidBackoff},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "negative rate", modify: func(c *Config) { c.RateLimit = -1 }, wantErr: ErrInvalidRateLimit},
		{name: "negative max pages", modify: func(c *Config) { c.MaxPages = -1 }, wantErr: ErrInvalidMaxPages},
		{name: "zero max body size", modify: func(c *Config) { c.MaxBodySize = 0 }, wantErr: ErrInvalidMaxBodySize},
		{name: "unknown rotation", modify: func(c *Config) { c.Rotation = "hourly" }, wantErr: model.ErrInvalidRotation},
		{name: "relative base URL", modify: func(c *Config) { c.BaseURL = "github.com" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp base URL", modify: func(c *Config) { c.BaseURL = "ftp://github.com" }, wantErr: ErrInvalidBaseURL},
		{name: "json and markdown", modify: func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, wantErr: ErrConflictingReportFormats},
		{name: "markdown and text", modify: func(c *Config) { c.MarkdownReport, c.TextReport = true, true }, wantErr: ErrConflictingReportFormats},
		{name: "single format", modify: func(c *Config) { c.TextReport = true }},
		{name: "zero backoff", modify: func(c *Config) { c.BackoffMin, c.BackoffMax = 0, 0 }},
		{name: "local base URL", modify: func(c *Config) { c.BaseURL = "http://127.0.0.1:8080" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile("/nonexistent/path/.ghcrawl")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if f != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".ghcrawl")
		content := `type: Issues
maxPages: 4
concurrency: 5
respectRobots: true
proxy:
  list: /etc/ghcrawl/proxies.txt
  rotation: per-run
  tor: false
fetch:
  timeout: 8s
  maxAttempts: 5
  backoffMin: 500ms
  backoffMax: 2s
  rateLimit: 1.5
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Fetch.Timeout != 8*time.Second {
			t.Errorf("expected 8s timeout, got %v", f.Fetch.Timeout)
		}
		if f.Fetch.BackoffMin != 500*time.Millisecond {
			t.Errorf("expected 500ms backoff, got %v", f.Fetch.BackoffMin)
		}
		if f.Proxy.Tor == nil || *f.Proxy.Tor {
			t.Error("expected explicit tor: false")
		}

		cfg := NewConfig()
		if err := cfg.ApplyFile(f); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Category != model.CategoryIssues {
			t.Errorf("expected issues, got %q", cfg.Category)
		}
		if cfg.Rotation != model.RotationPerRun {
			t.Errorf("expected per-run, got %q", cfg.Rotation)
		}
		if cfg.ProxyFile != "/etc/ghcrawl/proxies.txt" {
			t.Errorf("unexpected proxy file %q", cfg.ProxyFile)
		}
		if cfg.MaxAttempts != 5 || cfg.MaxPages != 4 || cfg.Concurrency != 5 || cfg.RateLimit != 1.5 {
			t.Errorf("unexpected overlay: %+v", cfg)
		}
		if !cfg.RespectRobots {
			t.Error("expected respectRobots to be applied")
		}
		if cfg.BaseURL != DefaultBaseURL {
			t.Errorf("unset field must keep its default, got %q", cfg.BaseURL)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".ghcrawl")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestApplyFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		if err := cfg.ApplyFile(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("bad category", func(t *testing.T) {
		t.Parallel()
		err := NewConfig().ApplyFile(&File{Type: "users"})
		if !errors.Is(err, model.ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("bad rotation", func(t *testing.T) {
		t.Parallel()
		err := NewConfig().ApplyFile(&File{Proxy: ProxyFile{Rotation: "sometimes"}})
		if !errors.Is(err, model.ErrInvalidRotation) {
			t.Errorf("expected ErrInvalidRotation, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("maxPages: 1\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		if dir == "" {
			t.Errorf("%s dir is empty", name)
		}
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("%s dir %q does not end with %q", name, dir, AppName)
		}
	}
}

// TestLoadEnv cannot run in parallel because it changes the process environment.
func TestLoadEnv(t *testing.T) {
	t.Run("overlays set variables only", func(t *testing.T) {
		t.Setenv("GHCRAWL_TIMEOUT", "9s")
		t.Setenv("GHCRAWL_ROTATION", "per-run")
		t.Setenv("GHCRAWL_RATE_LIMIT", "2.5")
		t.Setenv("GHCRAWL_RESPECT_ROBOTS", "true")

		cfg := NewConfig()
		cfg.MaxAttempts = 7
		if err := cfg.LoadEnv(""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Timeout != 9*time.Second {
			t.Errorf("expected 9s, got %v", cfg.Timeout)
		}
		if cfg.Rotation != model.RotationPerRun {
			t.Errorf("expected per-run, got %q", cfg.Rotation)
		}
		if cfg.RateLimit != 2.5 || !cfg.RespectRobots {
			t.Errorf("unexpected overlay: rate=%v robots=%v", cfg.RateLimit, cfg.RespectRobots)
		}
		if cfg.MaxAttempts != 7 {
			t.Errorf("unset variable must keep the current value, got %d", cfg.MaxAttempts)
		}
	})

	t.Run("reads dotenv file without overriding the process", func(t *testing.T) {
		t.Setenv("GHCRAWL_CONCURRENCY", "3")
		// Registered with t.Setenv so the value loaded from the file is
		// restored afterwards.
		t.Setenv("GHCRAWL_MAX_PAGES", "")
		if err := os.Unsetenv("GHCRAWL_MAX_PAGES"); err != nil {
			t.Fatalf("failed to unset: %v", err)
		}

		envFile := filepath.Join(t.TempDir(), ".env")
		content := "GHCRAWL_CONCURRENCY=20\nGHCRAWL_MAX_PAGES=6\n"
		if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		cfg := NewConfig()
		if err := cfg.LoadEnv(envFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Concurrency != 3 {
			t.Errorf("process variable must win, got %d", cfg.Concurrency)
		}
		if cfg.MaxPages != 6 {
			t.Errorf("expected dotenv value 6, got %d", cfg.MaxPages)
		}
	})

	t.Run("missing dotenv file is fine", func(t *testing.T) {
		cfg := NewConfig()
		if err := cfg.LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("normalizes type and rotation", func(t *testing.T) {
		t.Setenv("GHCRAWL_TYPE", " Issues ")
		t.Setenv("GHCRAWL_ROTATION", "Per-Run")

		cfg := NewConfig()
		if err := cfg.LoadEnv(""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Category != model.CategoryIssues {
			t.Errorf("expected issues, got %q", cfg.Category)
		}
		if cfg.Rotation != model.RotationPerRun {
			t.Errorf("expected per-run, got %q", cfg.Rotation)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("normalized config must validate, got %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Setenv("GHCRAWL_TYPE", "users")
		if err := NewConfig().LoadEnv(""); !errors.Is(err, model.ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("unknown rotation", func(t *testing.T) {
		t.Setenv("GHCRAWL_ROTATION", "hourly")
		if err := NewConfig().LoadEnv(""); !errors.Is(err, model.ErrInvalidRotation) {
			t.Errorf("expected ErrInvalidRotation, got %v", err)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("GHCRAWL_MAX_ATTEMPTS", "many")
		if err := NewConfig().LoadEnv(""); err == nil {
			t.Error("expected error for non-numeric attempts")
		}
	})
}
