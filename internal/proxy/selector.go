package proxy

import (
	"math/rand/v2"
	"net/url"
	"sync"
)

// Selector chooses the proxy for one fetch attempt.
// A nil URL means the request goes out directly.
// Implementations must be safe for concurrent use.
type Selector interface {
	Next() *url.URL
}

// RandomSelector picks a random proxy on every call.
type RandomSelector struct {
	proxies []*url.URL

	mu  sync.Mutex
	rng *rand.Rand
}

// SelectorOption configures a RandomSelector.
type SelectorOption func(*RandomSelector)

// WithSelectorRand sets the random source.
func WithSelectorRand(rng *rand.Rand) SelectorOption {
	return func(s *RandomSelector) {
		s.rng = rng
	}
}

// NewRandomSelector creates a selector over proxies.
// With no proxies every call returns nil.
func NewRandomSelector(proxies []*url.URL, opts ...SelectorOption) *RandomSelector {
	s := &RandomSelector{proxies: proxies}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not security sensitive
	}
	return s
}

// Next returns a random proxy, or nil if there are none.
func (s *RandomSelector) Next() *url.URL {
	if len(s.proxies) == 0 {
		return nil
	}
	s.mu.Lock()
	i := s.rng.IntN(len(s.proxies))
	s.mu.Unlock()
	return s.proxies[i]
}

// Len returns the number of proxies in the pool.
func (s *RandomSelector) Len() int {
	return len(s.proxies)
}

// FixedSelector always returns the same proxy.
type FixedSelector struct {
	proxy *url.URL
}

// NewFixedSelector creates a selector pinned to u. A nil u means direct.
func NewFixedSelector(u *url.URL) *FixedSelector {
	return &FixedSelector{proxy: u}
}

// PinOnce draws a single proxy from s and returns a selector that repeats it.
// It is used when proxies rotate per run instead of per attempt.
func PinOnce(s Selector) *FixedSelector {
	return NewFixedSelector(s.Next())
}

// Next returns the pinned proxy.
func (f *FixedSelector) Next() *url.URL {
	return f.proxy
}
