package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/ghcrawl/internal/identity"
	"github.com/nao1215/ghcrawl/internal/model"
	"github.com/nao1215/ghcrawl/internal/proxy"
)

const (
	// DefaultMaxAttempts is the retry budget of a single fetch.
	DefaultMaxAttempts = 3

	// DefaultTimeout bounds one attempt, including reading the body.
	DefaultTimeout = 5 * time.Second

	// DefaultBackoffMin is the shortest wait between two attempts.
	DefaultBackoffMin = 1 * time.Second

	// DefaultBackoffMax is the longest wait between two attempts.
	DefaultBackoffMax = 3 * time.Second

	// DefaultMaxBodySize caps a response body at 10 MiB.
	DefaultMaxBodySize = 10 << 20
)

// Fetcher performs GET requests with bounded retries.
// It is safe for concurrent use.
type Fetcher struct {
	session    *Session
	identities identity.Generator
	proxies    proxy.Selector
	logger     *slog.Logger
	limiter    *rate.Limiter

	maxAttempts int
	timeout     time.Duration
	backoffMin  time.Duration
	backoffMax  time.Duration
	maxBodySize int64

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxAttempts sets the retry budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n >= 1 {
			f.maxAttempts = n
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithBackoff sets the range the inter-attempt delay is drawn from.
// A zero range disables waiting.
func WithBackoff(minDelay, maxDelay time.Duration) Option {
	return func(f *Fetcher) {
		if minDelay < 0 || maxDelay < minDelay {
			return
		}
		f.backoffMin = minDelay
		f.backoffMax = maxDelay
	}
}

// WithRateLimit limits attempts to rps per second with the given burst.
// Zero rps means unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxBodySize caps the number of body bytes read per response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithLogger sets the logger that receives one line per attempt.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRand sets the random source used for backoff delays.
func WithRand(rng *rand.Rand) Option {
	return func(f *Fetcher) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// New creates a Fetcher on top of session.
// A nil identities uses random browser identities; a nil proxies connects directly.
func New(session *Session, identities identity.Generator, proxies proxy.Selector, opts ...Option) *Fetcher {
	if identities == nil {
		identities = identity.NewRandomGenerator()
	}
	if proxies == nil {
		proxies = proxy.NewFixedSelector(nil)
	}

	f := &Fetcher{
		session:     session,
		identities:  identities,
		proxies:     proxies,
		logger:      slog.New(slog.DiscardHandler),
		maxAttempts: DefaultMaxAttempts,
		timeout:     DefaultTimeout,
		backoffMin:  DefaultBackoffMin,
		backoffMax:  DefaultBackoffMax,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // jitter only
	}
	return f
}

// Fetch requests target with query appended and returns the body of the
// first successful attempt. It returns false when every attempt failed or
// ctx was cancelled.
func (f *Fetcher) Fetch(ctx context.Context, target string, query url.Values) (string, bool) {
	reqURL, err := buildURL(target, query)
	if err != nil {
		f.logger.Warn("skipping fetch of malformed url", slog.String("url", target), slog.String("reason", err.Error()))
		return "", false
	}

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return "", false
			}
		}

		body, result := f.try(ctx, reqURL, attempt)
		f.log(result)
		if result.Succeeded() {
			return body, true
		}
		if ctx.Err() != nil || attempt == f.maxAttempts {
			break
		}
		if !f.sleep(ctx, f.backoff()) {
			break
		}
	}
	return "", false
}

// try performs one attempt under its own timeout.
func (f *Fetcher) try(ctx context.Context, reqURL string, ordinal int) (string, model.FetchAttempt) {
	id := f.identities.Next()
	attempt := model.FetchAttempt{
		URL:       reqURL,
		Ordinal:   ordinal,
		Proxy:     f.proxies.Next(),
		UserAgent: id.UserAgent,
	}

	ctx, cancel := context.WithTimeout(withProxy(ctx, attempt.Proxy), f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		attempt.Err = err
		return "", attempt
	}
	id.Apply(req.Header)

	resp, err := f.session.Do(req)
	if err != nil {
		attempt.Err = err
		return "", attempt
	}
	defer resp.Body.Close()
	attempt.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		attempt.Err = fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		return "", attempt
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		attempt.Err = fmt.Errorf("failed to read body: %w", err)
		return "", attempt
	}
	if int64(len(body)) > f.maxBodySize {
		attempt.Err = fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
		return "", attempt
	}

	attempt.BodySize = len(body)
	return string(body), attempt
}

// log writes the attempt as one structured line.
func (f *Fetcher) log(a model.FetchAttempt) {
	if a.Succeeded() {
		f.logger.Info("fetch attempt", a.LogAttrs()...)
		return
	}
	f.logger.Warn("fetch attempt", a.LogAttrs()...)
}

// backoff draws a delay uniformly from [backoffMin, backoffMax].
func (f *Fetcher) backoff() time.Duration {
	spread := f.backoffMax - f.backoffMin
	if spread <= 0 {
		return f.backoffMin
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backoffMin + time.Duration(f.rng.Int64N(int64(spread)+1))
}

// sleep waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func (f *Fetcher) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// buildURL appends query to target. Existing query parameters are kept.
func buildURL(target string, query url.Values) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
