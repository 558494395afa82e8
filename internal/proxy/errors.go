package proxy

import "errors"

var (
	// ErrInvalidProxy is returned when a proxy entry cannot be turned into a
	// usable proxy URL.
	ErrInvalidProxy = errors.New("invalid proxy address")

	// ErrUnsupportedScheme is returned for proxy schemes other than http,
	// https, socks5 and socks5h.
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme: expected http, https, socks5 or socks5h")

	// ErrTorNotRunning is returned when the embedded Tor daemon is used
	// before Start succeeded.
	ErrTorNotRunning = errors.New("embedded Tor daemon is not running")
)

// Status is the result of probing one proxy.
type Status int

const (
	// StatusOK means the proxy relayed a request to the target origin.
	StatusOK Status = iota

	// StatusCannotConnect means no connection through the proxy was possible.
	StatusCannotConnect

	// StatusTimeout means the probe did not finish in time.
	StatusTimeout

	// StatusBadResponse means the proxy answered with an error status.
	StatusBadResponse
)

// String returns a human-readable description of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCannotConnect:
		return "cannot connect"
	case StatusTimeout:
		return "timeout"
	case StatusBadResponse:
		return "bad response"
	default:
		return "unknown"
	}
}
