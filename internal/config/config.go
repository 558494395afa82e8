package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/ghcrawl/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "ghcrawl"

	// DefaultBaseURL is the origin searched.
	DefaultBaseURL = "https://github.com"

	// DefaultProxyFile is the proxy list read when none is given.
	// A missing file means no proxies.
	DefaultProxyFile = "proxylist.txt"

	// DefaultTimeout bounds one fetch attempt.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxAttempts is the retry budget of a single fetch.
	DefaultMaxAttempts = 3

	// DefaultBackoffMin and DefaultBackoffMax bound the wait between attempts.
	DefaultBackoffMin = 1 * time.Second
	DefaultBackoffMax = 3 * time.Second

	// DefaultConcurrency is the number of detail pages fetched at once.
	DefaultConcurrency = 10

	// DefaultMaxBodySize caps a response body at 10MB.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds every setting of a crawl run. It is populated from defaults,
// the config file, the environment and CLI flags, and passed down
// explicitly rather than kept in global state.
//
// The envconfig tags name the environment variables read by LoadEnv.
// Fields tagged ignored are set from flags only.
type Config struct {
	// Keywords are the search terms, joined by spaces in the query.
	Keywords []string `ignored:"true"`

	// Category is the result type searched: repositories, issues or wikis.
	Category model.Category `envconfig:"GHCRAWL_TYPE"`

	// BaseURL is the origin searched. Tests point it at a local server.
	BaseURL string `envconfig:"GHCRAWL_BASE_URL"`

	// ProxyFile is the line-delimited proxy list.
	ProxyFile string `envconfig:"GHCRAWL_PROXY_FILE"`

	// Rotation decides whether the proxy and identity change on every
	// attempt or stay fixed for the run.
	Rotation model.Rotation `envconfig:"GHCRAWL_ROTATION"`

	// Timeout bounds each fetch attempt, including reading the body.
	Timeout time.Duration `envconfig:"GHCRAWL_TIMEOUT"`

	// MaxAttempts is the retry budget of a single fetch.
	MaxAttempts int `envconfig:"GHCRAWL_MAX_ATTEMPTS"`

	// BackoffMin and BackoffMax bound the random wait between attempts.
	BackoffMin time.Duration `envconfig:"GHCRAWL_BACKOFF_MIN"`
	BackoffMax time.Duration `envconfig:"GHCRAWL_BACKOFF_MAX"`

	// Concurrency bounds in-flight detail page fetches.
	Concurrency int `envconfig:"GHCRAWL_CONCURRENCY"`

	// RateLimit is the maximum number of requests per second. 0 disables it.
	RateLimit float64 `envconfig:"GHCRAWL_RATE_LIMIT"`

	// MaxPages stops pagination after this many pages. 0 means no limit.
	MaxPages int `envconfig:"GHCRAWL_MAX_PAGES"`

	// MaxBodySize is the largest response body accepted, in bytes.
	MaxBodySize int64 `envconfig:"GHCRAWL_MAX_BODY_SIZE"`

	// RespectRobots checks robots.txt before the first request.
	RespectRobots bool `envconfig:"GHCRAWL_RESPECT_ROBOTS"`

	// UseTor starts an embedded Tor daemon and adds it to the proxy pool.
	//
	// Note: the daemon takes 1-3 minutes to bootstrap.
	UseTor bool `envconfig:"GHCRAWL_TOR"`

	// TorStartupTimeout is the maximum time to wait for the daemon.
	TorStartupTimeout time.Duration `envconfig:"GHCRAWL_TOR_STARTUP_TIMEOUT"`

	// Verbose enables debug logging.
	Verbose bool `envconfig:"GHCRAWL_VERBOSE"`

	// LogJSON writes logs as JSON instead of text.
	LogJSON bool `envconfig:"GHCRAWL_LOG_JSON"`

	// JSONReport, MarkdownReport and TextReport pick the output format.
	// At most one may be set; JSON is used when none is.
	JSONReport     bool `ignored:"true"`
	MarkdownReport bool `ignored:"true"`
	TextReport     bool `ignored:"true"`

	// ReportFile is the output path. Empty means stdout.
	ReportFile string `envconfig:"GHCRAWL_OUTPUT"`

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/ghcrawl on Linux).
	DBDir string `envconfig:"GHCRAWL_DB_DIR"`

	// SaveToDB stores the run in the history database.
	SaveToDB bool `envconfig:"GHCRAWL_SAVE"`

	// ConfigFilePath is the YAML file given with --config.
	ConfigFilePath string `ignored:"true"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Category:          model.CategoryRepositories,
		BaseURL:           DefaultBaseURL,
		ProxyFile:         DefaultProxyFile,
		Rotation:          model.RotationPerAttempt,
		Timeout:           DefaultTimeout,
		MaxAttempts:       DefaultMaxAttempts,
		BackoffMin:        DefaultBackoffMin,
		BackoffMax:        DefaultBackoffMax,
		Concurrency:       DefaultConcurrency,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
	}
}

// XDGDataDir returns the XDG data directory for ghcrawl.
// On Linux: ~/.local/share/ghcrawl
// On macOS: ~/Library/Application Support/ghcrawl
// On Windows: %LOCALAPPDATA%\ghcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ghcrawl.
// On Linux: ~/.config/ghcrawl
// On macOS: ~/Library/Application Support/ghcrawl
// On Windows: %APPDATA%\ghcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the run settings and returns the first problem found.
// Keywords and category are checked by model.CrawlRequest.Validate.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if !c.Rotation.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidRotation, c.Rotation)
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.BackoffMin < 0 || c.BackoffMax < c.BackoffMin {
		return ErrInvalidBackoff
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.TextReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
