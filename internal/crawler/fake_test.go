package crawler

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/ghcrawl/internal/extract"
	"github.com/nao1215/ghcrawl/internal/model"
)

// fakeFetcher serves canned bodies keyed by target URL. Targets listed in
// failing, or not registered at all, report absence.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	failing map[string]bool
	calls   []fakeCall
}

type fakeCall struct {
	target string
	query  url.Values
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   make(map[string]string),
		failing: make(map[string]bool),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, target string, query url.Values) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{target: target, query: query})
	if f.failing[target] {
		return "", false
	}
	body, ok := f.pages[target]
	return body, ok
}

func (f *fakeFetcher) callsTo(target string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.target == target {
			out = append(out, c)
		}
	}
	return out
}

// lineExtractor understands a tiny line format:
//
//	item <url>
//	next <url>
//	stat <name> <value>
type lineExtractor struct{}

var _ extract.Extractor = lineExtractor{}

func (lineExtractor) ExtractListing(body string) extract.Listing {
	l := extract.Listing{References: make([]model.ItemReference, 0)}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) == 2 && fields[0] == "item":
			l.References = append(l.References, model.ItemReference(fields[1]))
		case len(fields) == 2 && fields[0] == "next":
			l.Next = fields[1]
		}
	}
	return l
}

func (lineExtractor) ExtractDetail(body string) map[string]float64 {
	stats := make(map[string]float64)
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[0] != "stat" {
			continue
		}
		if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
			stats[fields[1]] = v
		}
	}
	return stats
}
