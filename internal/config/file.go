package config

import (
	"fmt"
	"time"

	"github.com/nao1215/ghcrawl/internal/model"
)

// File represents the structure of the .ghcrawl configuration file.
// Every field is optional; zero values leave the current setting alone.
type File struct {
	// Type is the default search category.
	Type string `yaml:"type,omitempty"`

	// BaseURL overrides the origin searched.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Proxy configures the proxy pool.
	Proxy ProxyFile `yaml:"proxy,omitempty"`

	// Fetch configures retries and politeness.
	Fetch FetchFile `yaml:"fetch,omitempty"`

	// MaxPages stops pagination after this many pages.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Concurrency bounds in-flight detail fetches.
	Concurrency int `yaml:"concurrency,omitempty"`

	// RespectRobots checks robots.txt before crawling.
	RespectRobots *bool `yaml:"respectRobots,omitempty"`

	// DBDir is the history database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// ProxyFile is the proxy section of the configuration file.
type ProxyFile struct {
	// List is the path of the line-delimited proxy list.
	List string `yaml:"list,omitempty"`

	// Rotation is per-attempt or per-run.
	Rotation string `yaml:"rotation,omitempty"`

	// Tor adds an embedded Tor daemon to the pool.
	Tor *bool `yaml:"tor,omitempty"`

	// TorStartupTimeout bounds the daemon bootstrap, e.g. "3m".
	TorStartupTimeout time.Duration `yaml:"torStartupTimeout,omitempty"`
}

// FetchFile is the fetch section of the configuration file.
type FetchFile struct {
	// Timeout bounds one attempt, e.g. "5s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxAttempts is the retry budget.
	MaxAttempts int `yaml:"maxAttempts,omitempty"`

	// BackoffMin and BackoffMax bound the wait between attempts.
	BackoffMin time.Duration `yaml:"backoffMin,omitempty"`
	BackoffMax time.Duration `yaml:"backoffMax,omitempty"`

	// RateLimit is requests per second.
	RateLimit float64 `yaml:"rateLimit,omitempty"`

	// MaxBodySize is the largest body accepted in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`
}

// ApplyFile overlays the non-zero values of f onto c.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}

	if f.Type != "" {
		category, err := model.ParseCategory(f.Type)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Category = category
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.MaxPages != 0 {
		c.MaxPages = f.MaxPages
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.RespectRobots != nil {
		c.RespectRobots = *f.RespectRobots
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}

	if f.Proxy.List != "" {
		c.ProxyFile = f.Proxy.List
	}
	if f.Proxy.Rotation != "" {
		rotation, err := model.ParseRotation(f.Proxy.Rotation)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Rotation = rotation
	}
	if f.Proxy.Tor != nil {
		c.UseTor = *f.Proxy.Tor
	}
	if f.Proxy.TorStartupTimeout != 0 {
		c.TorStartupTimeout = f.Proxy.TorStartupTimeout
	}

	if f.Fetch.Timeout != 0 {
		c.Timeout = f.Fetch.Timeout
	}
	if f.Fetch.MaxAttempts != 0 {
		c.MaxAttempts = f.Fetch.MaxAttempts
	}
	if f.Fetch.BackoffMin != 0 {
		c.BackoffMin = f.Fetch.BackoffMin
	}
	if f.Fetch.BackoffMax != 0 {
		c.BackoffMax = f.Fetch.BackoffMax
	}
	if f.Fetch.RateLimit != 0 {
		c.RateLimit = f.Fetch.RateLimit
	}
	if f.Fetch.MaxBodySize != 0 {
		c.MaxBodySize = f.Fetch.MaxBodySize
	}

	return nil
}
