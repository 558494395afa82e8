package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nao1215/ghcrawl/internal/extract"
	"github.com/nao1215/ghcrawl/internal/fetch"
	"github.com/nao1215/ghcrawl/internal/identity"
	"github.com/nao1215/ghcrawl/internal/model"
	"github.com/nao1215/ghcrawl/internal/proxy"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("crawler has already been started")

// searchPath is the listing endpoint below the base URL.
const searchPath = "/search"

// State is the lifecycle stage of a Crawler.
type State int32

const (
	// StateInit means Run has not been called yet.
	StateInit State = iota

	// StateRunning means pages are being walked.
	StateRunning

	// StateDone means the run finished, successfully or not.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// FetcherFactory builds the fetcher for one run on top of that run's session.
type FetcherFactory func(session *fetch.Session, identities identity.Generator, proxies proxy.Selector) PageFetcher

// Crawler runs one search crawl: it walks the listing pages and aggregates
// item details page by page.
type Crawler struct {
	// baseURL is the origin searched, e.g. https://github.com.
	baseURL string

	extractor  extract.Extractor
	identities identity.Generator
	newFetcher FetcherFactory
	custom     bool
	robots     *RobotsChecker
	rotation   model.Rotation
	logger     *slog.Logger

	fetchOpts   []fetch.Option
	concurrency int
	maxPages    int

	state atomic.Int32
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBaseURL sets the origin to search.
func WithBaseURL(baseURL string) Option {
	return func(c *Crawler) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithFetchOptions passes options to the fetcher built for each run.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(c *Crawler) {
		c.fetchOpts = append(c.fetchOpts, opts...)
	}
}

// WithFetcherFactory replaces the default fetch.Fetcher.
func WithFetcherFactory(factory FetcherFactory) Option {
	return func(c *Crawler) {
		if factory != nil {
			c.newFetcher = factory
			c.custom = true
		}
	}
}

// WithIdentities sets the identity generator.
func WithIdentities(g identity.Generator) Option {
	return func(c *Crawler) {
		c.identities = g
	}
}

// WithRotation sets whether proxies and identities change per attempt or per run.
func WithRotation(r model.Rotation) Option {
	return func(c *Crawler) {
		if r.IsValid() {
			c.rotation = r
		}
	}
}

// WithRobots enables the robots.txt check before the first page.
func WithRobots(checker *RobotsChecker) Option {
	return func(c *Crawler) {
		c.robots = checker
	}
}

// WithDetailConcurrency sets how many detail pages are fetched at once.
func WithDetailConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithPageLimit stops the walk after n listing pages. 0 means no limit.
func WithPageLimit(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.maxPages = n
		}
	}
}

// WithLogger sets the logger passed to every component of the run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler using extractor for every page.
func New(extractor extract.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		baseURL:     extract.DefaultBaseURL,
		extractor:   extractor,
		rotation:    model.RotationPerAttempt,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.identities == nil {
		c.identities = identity.NewRandomGenerator(identity.WithReferer(c.baseURL + "/"))
	}
	if c.newFetcher == nil {
		c.newFetcher = c.defaultFetcher
	}
	return c
}

// State returns the current lifecycle state. It is safe to call while Run
// is in progress.
func (c *Crawler) State() State {
	return State(c.state.Load())
}

// Run crawls req and returns the records in discovery order.
//
// Only an invalid request or proxy list is reported as an error before any
// network activity. The Crawler then stays in StateInit and may be run
// again. Pages and details that cannot be fetched are left out or recorded
// without detail. If ctx is cancelled, Run returns the partial
// result together with ctx.Err().
func (c *Crawler) Run(ctx context.Context, req model.CrawlRequest) (*model.CrawlResult, error) {
	if c.State() != StateInit {
		return nil, ErrAlreadyStarted
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	proxies, err := proxy.ParseAll(req.Proxies)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy list: %w", err)
	}

	if !c.state.CompareAndSwap(int32(StateInit), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	defer c.state.Store(int32(StateDone))

	startURL := c.baseURL + searchPath
	query := url.Values{
		"q":    {req.Query()},
		"type": {req.Category.String()},
	}

	var selector proxy.Selector = proxy.NewRandomSelector(proxies)
	identities := c.identities
	if c.rotation == model.RotationPerRun {
		selector = proxy.PinOnce(selector)
		identities = identity.PinOnce(identities)
	}

	session := fetch.NewSession()
	defer session.Close()
	fetcher := c.newFetcher(session, identities, selector)

	result := model.NewCrawlResult(req)
	result.StartedAt = time.Now()
	defer func() { result.FinishedAt = time.Now() }()

	c.logger.Info("crawl started",
		slog.String("query", req.Query()),
		slog.String("type", req.Category.String()),
		slog.Int("proxies", len(proxies)),
		slog.String("rotation", c.rotation.String()),
	)

	if c.robots != nil && !c.robots.Allowed(ctx, c.robotsFetcher(session, identities, selector, fetcher), startURL) {
		c.logger.Warn("search path disallowed by robots.txt", slog.String("url", startURL))
		return result, nil
	}

	walker := NewWalker(fetcher, c.extractor,
		WithMaxPages(c.maxPages),
		WithWalkerLogger(c.logger),
	)
	aggregator := NewAggregator(fetcher, c.extractor,
		WithConcurrency(c.concurrency),
		WithAggregatorLogger(c.logger),
	)

	pages, err := walker.Walk(ctx, startURL, query, func(p Page) error {
		result.Append(aggregator.Aggregate(ctx, p.References)...)
		return nil
	})
	result.Pages = pages

	c.logger.Info("crawl finished",
		slog.Int("pages", result.Pages),
		slog.Int("records", len(result.Records)),
		slog.Int("with_detail", result.DetailCount()),
	)

	return result, err
}

// defaultFetcher builds a fetch.Fetcher with the configured options.
func (c *Crawler) defaultFetcher(session *fetch.Session, identities identity.Generator, proxies proxy.Selector) PageFetcher {
	return c.buildFetcher(session, identities, proxies)
}

// robotsFetcher returns a single-attempt fetcher for robots.txt so a
// missing file does not spend the retry budget. A custom factory's fetcher
// is used as is.
func (c *Crawler) robotsFetcher(session *fetch.Session, identities identity.Generator, proxies proxy.Selector, run PageFetcher) PageFetcher {
	if c.custom {
		return run
	}
	return c.buildFetcher(session, identities, proxies, fetch.WithMaxAttempts(1))
}

func (c *Crawler) buildFetcher(session *fetch.Session, identities identity.Generator, proxies proxy.Selector, extra ...fetch.Option) *fetch.Fetcher {
	opts := make([]fetch.Option, 0, len(c.fetchOpts)+len(extra)+1)
	opts = append(opts, fetch.WithLogger(c.logger))
	opts = append(opts, c.fetchOpts...)
	opts = append(opts, extra...)
	return fetch.New(session, identities, proxies, opts...)
}
