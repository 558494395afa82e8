package model

import (
	"log/slog"
	"net/url"
)

// FetchAttempt describes one try of a fetch. It exists only for logging.
type FetchAttempt struct {
	// URL is the request target including the query string.
	URL string

	// Ordinal is 1-based.
	Ordinal int

	// Proxy is the relay used, or nil for a direct connection.
	Proxy *url.URL

	// UserAgent is the identity's User-Agent header.
	UserAgent string

	// StatusCode is the HTTP status, or 0 if no response arrived.
	StatusCode int

	// BodySize is the number of body bytes read on success.
	BodySize int

	// Err is the failure reason, or nil on success.
	Err error
}

// Succeeded reports whether the attempt produced a body.
func (a FetchAttempt) Succeeded() bool {
	return a.Err == nil
}

// ProxyString returns the proxy address or "direct".
func (a FetchAttempt) ProxyString() string {
	if a.Proxy == nil {
		return "direct"
	}
	return a.Proxy.Redacted()
}

// LogAttrs returns the attempt as structured log attributes.
func (a FetchAttempt) LogAttrs() []any {
	attrs := []any{
		slog.String("url", a.URL),
		slog.Int("attempt", a.Ordinal),
		slog.String("proxy", a.ProxyString()),
	}
	if a.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", a.StatusCode))
	}
	if a.Err != nil {
		return append(attrs, slog.String("outcome", "failure"), slog.String("reason", a.Err.Error()))
	}
	return append(attrs, slog.String("outcome", "success"), slog.Int("bytes", a.BodySize))
}
