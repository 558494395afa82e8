package proxy

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads a line-delimited proxy list. Surrounding whitespace is
// trimmed and blank lines are skipped. A missing file yields an empty list
// and no error, so a run simply proceeds without proxies.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided proxy list path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open proxy list: %w", err)
	}
	defer f.Close()

	proxies := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		proxies = append(proxies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read proxy list: %w", err)
	}
	return proxies, nil
}

// Parse turns a proxy entry into a URL. Entries without a scheme are
// treated as plain HTTP proxies ("10.0.0.1:8080" -> "http://10.0.0.1:8080").
func Parse(entry string) (*url.URL, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, fmt.Errorf("%w: empty entry", ErrInvalidProxy)
	}
	if !strings.Contains(entry, "://") {
		entry = "http://" + entry
	}

	u, err := url.Parse(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidProxy, u.Redacted())
	}
	if port := u.Port(); port != "" && !isValidPort(port) {
		return nil, fmt.Errorf("%w: bad port in %q", ErrInvalidProxy, u.Redacted())
	}
	if u.Path != "" && u.Path != "/" {
		return nil, fmt.Errorf("%w: unexpected path in %q", ErrInvalidProxy, u.Redacted())
	}
	u.Path = ""

	return u, nil
}

// ParseAll parses every entry and stops at the first invalid one.
func ParseAll(entries []string) ([]*url.URL, error) {
	proxies := make([]*url.URL, 0, len(entries))
	for i, entry := range entries {
		u, err := Parse(entry)
		if err != nil {
			return nil, fmt.Errorf("proxy entry %d: %w", i+1, err)
		}
		proxies = append(proxies, u)
	}
	return proxies, nil
}

// isValidPort reports whether port is a number between 1 and 65535.
func isValidPort(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// hostPort returns u's host with the scheme default port filled in.
func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	switch u.Scheme {
	case "https":
		return net.JoinHostPort(u.Hostname(), "443")
	case "socks5", "socks5h":
		return net.JoinHostPort(u.Hostname(), "1080")
	default:
		return net.JoinHostPort(u.Hostname(), "80")
	}
}
