package crawler

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/ghcrawl/internal/extract"
	"github.com/nao1215/ghcrawl/internal/model"
)

// DefaultConcurrency is the number of detail pages fetched at once.
const DefaultConcurrency = 10

// Aggregator fetches the detail page of every reference on a listing page
// and merges the extracted data into records.
type Aggregator struct {
	fetcher   PageFetcher
	extractor extract.Extractor
	logger    *slog.Logger

	// concurrency bounds in-flight detail fetches.
	concurrency int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithConcurrency sets the maximum number of concurrent detail fetches.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithAggregatorLogger sets the aggregator's logger.
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an Aggregator.
func NewAggregator(fetcher PageFetcher, extractor extract.Extractor, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetcher:     fetcher,
		extractor:   extractor,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns one record per reference, in the order of refs.
// A reference whose detail page could not be fetched gets a record without
// detail. Cancelling ctx stops new fetches; references not yet started also
// get records without detail.
func (a *Aggregator) Aggregate(ctx context.Context, refs []model.ItemReference) []model.ItemRecord {
	records := make([]model.ItemRecord, len(refs))
	for i, ref := range refs {
		records[i] = model.ItemRecord{Reference: ref}
	}

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, ref := range refs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			body, ok := a.fetcher.Fetch(ctx, ref.String(), nil)
			if !ok {
				a.logger.Warn("detail unavailable", slog.String("url", ref.String()))
				return nil
			}

			// Each goroutine owns records[i].
			records[i].Detail = &model.ItemDetail{
				Owner: ref.Owner(),
				Stats: a.extractor.ExtractDetail(body),
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return records
}
