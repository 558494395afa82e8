package crawler

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/nao1215/ghcrawl/internal/extract"
	"github.com/nao1215/ghcrawl/internal/model"
)

// PageFetcher retrieves a page body. It reports absence instead of an error
// when every attempt failed.
type PageFetcher interface {
	Fetch(ctx context.Context, target string, query url.Values) (string, bool)
}

// Page is one successfully fetched listing page.
type Page struct {
	// URL is the page address without the initial query parameters.
	URL string

	// Number is 1-based.
	Number int

	// References are the items listed on the page in document order.
	References []model.ItemReference
}

// Walker follows next-page pointers across a search listing.
type Walker struct {
	fetcher   PageFetcher
	extractor extract.Extractor
	logger    *slog.Logger

	// maxPages stops the walk after this many pages. 0 means no limit.
	maxPages int
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithMaxPages limits the number of listing pages visited. 0 means no limit.
func WithMaxPages(n int) WalkerOption {
	return func(w *Walker) {
		if n >= 0 {
			w.maxPages = n
		}
	}
}

// WithWalkerLogger sets the walker's logger.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWalker creates a Walker.
func NewWalker(fetcher PageFetcher, extractor extract.Extractor, opts ...WalkerOption) *Walker {
	w := &Walker{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk fetches startURL with query, then follows next-page pointers until
// there are none. query is only sent with the first request; later pointers
// are complete URLs.
//
// visit is called once per page, in order. A page that cannot be fetched
// ends the walk quietly and the pages already visited stand. The returned
// error is non-nil only when visit failed or ctx was cancelled.
func (w *Walker) Walk(ctx context.Context, startURL string, query url.Values, visit func(Page) error) (int, error) {
	seen := make(map[string]struct{})
	target := startURL
	pages := 0

	for target != "" {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		if w.maxPages > 0 && pages >= w.maxPages {
			w.logger.Info("page limit reached", slog.Int("max_pages", w.maxPages))
			break
		}
		seen[target] = struct{}{}

		var q url.Values
		if pages == 0 {
			q = query
		}
		body, ok := w.fetcher.Fetch(ctx, target, q)
		if !ok {
			if err := ctx.Err(); err != nil {
				return pages, err
			}
			w.logger.Warn("stopping pagination: page unavailable",
				slog.String("url", target),
				slog.Int("pages", pages),
			)
			break
		}

		listing := w.extractor.ExtractListing(body)
		pages++
		w.logger.Info("listing page fetched",
			slog.String("url", target),
			slog.Int("page", pages),
			slog.Int("items", len(listing.References)),
		)

		if err := visit(Page{URL: target, Number: pages, References: listing.References}); err != nil {
			return pages, err
		}

		target = listing.Next
		if _, dup := seen[target]; dup {
			w.logger.Warn("stopping pagination: next page already visited", slog.String("url", target))
			break
		}
	}

	return pages, nil
}
