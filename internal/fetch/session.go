package fetch

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// maxRedirects bounds redirect chains for a single request.
const maxRedirects = 10

// proxyKey is the context key carrying the proxy chosen for one attempt.
type proxyKey struct{}

// withProxy returns a context whose requests go through u.
// A nil u means a direct connection.
func withProxy(ctx context.Context, u *url.URL) context.Context {
	return context.WithValue(ctx, proxyKey{}, u)
}

// proxyFromRequest is the transport's Proxy hook.
func proxyFromRequest(req *http.Request) (*url.URL, error) {
	u, _ := req.Context().Value(proxyKey{}).(*url.URL) //nolint:errcheck // absent value means direct
	return u, nil
}

// Session is the HTTP client for one crawl run. It keeps cookies across
// requests and pools connections per proxy.
type Session struct {
	transport *http.Transport
	client    *http.Client
}

// NewSession creates a Session. Call Close when the run ends.
func NewSession() *Session {
	transport := &http.Transport{
		Proxy:               proxyFromRequest,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &Session{
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Do sends req through the proxy stored in its context, if any.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

// Close releases idle connections. The session must not be used afterwards.
func (s *Session) Close() {
	s.transport.CloseIdleConnections()
}
