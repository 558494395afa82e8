package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	xproxy "golang.org/x/net/proxy"
	"golang.org/x/sync/errgroup"
)

// defaultProbeTimeout bounds a single probe.
const defaultProbeTimeout = 10 * time.Second

// ProbeResult is the outcome of probing one proxy.
type ProbeResult struct {
	Proxy   *url.URL
	Status  Status
	Latency time.Duration
	Err     error
}

// Prober checks whether proxies can reach a target origin.
type Prober struct {
	target      *url.URL
	timeout     time.Duration
	concurrency int
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProbeTimeout sets the per-proxy timeout.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeConcurrency sets how many proxies are probed at once.
func WithProbeConcurrency(n int) ProberOption {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProber creates a Prober that tests connectivity to target.
func NewProber(target string, opts ...ProberOption) (*Prober, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid probe target: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid probe target %q: expected http or https", target)
	}

	p := &Prober{
		target:      u,
		timeout:     defaultProbeTimeout,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Probe checks a single proxy.
//
// SOCKS proxies are checked by opening a TCP connection to the target through
// them. HTTP proxies are checked with a HEAD request to the target.
func (p *Prober) Probe(ctx context.Context, u *url.URL) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	var status Status
	var err error
	switch u.Scheme {
	case "socks5", "socks5h":
		status, err = p.probeSOCKS(ctx, u)
	default:
		status, err = p.probeHTTP(ctx, u)
	}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		status = StatusTimeout
	}

	return ProbeResult{
		Proxy:   u,
		Status:  status,
		Latency: time.Since(start),
		Err:     err,
	}
}

// ProbeAll checks every proxy and returns results in input order.
func (p *Prober) ProbeAll(ctx context.Context, proxies []*url.URL) []ProbeResult {
	results := make([]ProbeResult, len(proxies))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, u := range proxies {
		g.Go(func() error {
			results[i] = p.Probe(ctx, u)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes never return errors

	return results
}

// probeSOCKS dials the target through a SOCKS5 proxy.
func (p *Prober) probeSOCKS(ctx context.Context, u *url.URL) (Status, error) {
	dialer, err := xproxy.FromURL(u, xproxy.Direct)
	if err != nil {
		return StatusCannotConnect, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	var conn net.Conn
	if cd, ok := dialer.(xproxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", hostPort(p.target))
	} else {
		conn, err = dialer.Dial("tcp", hostPort(p.target))
	}
	if err != nil {
		return StatusCannotConnect, err
	}
	_ = conn.Close() //nolint:errcheck // probe connection only

	return StatusOK, nil
}

// probeHTTP sends a HEAD request to the target through an HTTP proxy.
func (p *Prober) probeHTTP(ctx context.Context, u *url.URL) (Status, error) {
	transport := &http.Transport{
		Proxy:             http.ProxyURL(u),
		DisableKeepAlives: true,
	}
	defer transport.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.target.String(), nil)
	if err != nil {
		return StatusCannotConnect, err
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return StatusCannotConnect, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return StatusBadResponse, fmt.Errorf("proxy returned %s", resp.Status)
	}
	return StatusOK, nil
}
