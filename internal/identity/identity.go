package identity

import (
	"math/rand/v2"
	"net/http"
	"sync"
)

// Identity is the header set applied to one outbound request.
type Identity struct {
	UserAgent      string
	AcceptLanguage string
	Referer        string
}

// Apply sets the identity headers on h.
func (i Identity) Apply(h http.Header) {
	if i.UserAgent != "" {
		h.Set("User-Agent", i.UserAgent)
	}
	if i.AcceptLanguage != "" {
		h.Set("Accept-Language", i.AcceptLanguage)
	}
	if i.Referer != "" {
		h.Set("Referer", i.Referer)
	}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

// Generator produces identities. Implementations must be safe for concurrent use.
type Generator interface {
	Next() Identity
}

// userAgents are recent Chrome and Edge desktop builds.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36 Edg/129.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36 Edg/128.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36 Edg/129.0.0.0",
}

// acceptLanguages are the locales an identity may claim.
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.8",
}

// RandomGenerator picks a random browser identity for each call.
type RandomGenerator struct {
	referer string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a RandomGenerator.
type Option func(*RandomGenerator)

// WithReferer sets the Referer header sent with every identity.
func WithReferer(referer string) Option {
	return func(g *RandomGenerator) {
		g.referer = referer
	}
}

// WithRand sets the random source. Tests use a seeded source for
// reproducible identities.
func WithRand(rng *rand.Rand) Option {
	return func(g *RandomGenerator) {
		g.rng = rng
	}
}

// NewRandomGenerator creates a RandomGenerator.
func NewRandomGenerator(opts ...Option) *RandomGenerator {
	g := &RandomGenerator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not security sensitive
	}
	return g
}

// Next returns a new random identity.
func (g *RandomGenerator) Next() Identity {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Identity{
		UserAgent:      userAgents[g.rng.IntN(len(userAgents))],
		AcceptLanguage: acceptLanguages[g.rng.IntN(len(acceptLanguages))],
		Referer:        g.referer,
	}
}

// Fixed always returns the same identity.
type Fixed struct {
	identity Identity
}

// NewFixed creates a generator pinned to identity.
func NewFixed(identity Identity) *Fixed {
	return &Fixed{identity: identity}
}

// PinOnce draws a single identity from g and returns a generator that
// repeats it. It is used when identities rotate per run instead of per attempt.
func PinOnce(g Generator) *Fixed {
	return NewFixed(g.Next())
}

// Next returns the pinned identity.
func (f *Fixed) Next() Identity {
	return f.identity
}
