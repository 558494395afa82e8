package crawler

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsChecker decides whether a path may be crawled according to the
// origin's robots.txt.
type RobotsChecker struct {
	agent  string
	logger *slog.Logger
}

// NewRobotsChecker creates a checker matching rules for agent.
// An empty agent matches the "*" group.
func NewRobotsChecker(agent string, logger *slog.Logger) *RobotsChecker {
	if agent == "" {
		agent = "*"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RobotsChecker{agent: agent, logger: logger}
}

// Allowed fetches robots.txt for target's origin and tests target's path.
// A missing or unparsable robots.txt allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, fetcher PageFetcher, target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()

	body, ok := fetcher.Fetch(ctx, robotsURL, nil)
	if !ok {
		r.logger.Info("robots.txt unavailable, assuming allowed", slog.String("url", robotsURL))
		return true
	}

	data, err := robotstxt.FromString(body)
	if err != nil {
		r.logger.Warn("robots.txt unparsable, assuming allowed",
			slog.String("url", robotsURL),
			slog.String("error", err.Error()),
		)
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.agent)
}
