package model

import (
	"net/url"
	"strings"
	"time"
)

// ItemReference is the canonical absolute URL of an item found on a listing page.
type ItemReference string

// String returns the URL.
func (r ItemReference) String() string {
	return string(r)
}

// Owner returns the first path segment of the reference, which is the
// account that owns the item. It returns an empty string if the URL cannot
// be parsed or has no path.
func (r ItemReference) Owner() string {
	u, err := url.Parse(string(r))
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	return segments[0]
}

// ItemDetail is the structured data extracted from an item's detail page.
type ItemDetail struct {
	// Owner is the account that owns the item.
	Owner string `json:"owner"`

	// Stats maps a category name (for repositories, a language) to its percentage.
	Stats map[string]float64 `json:"language_stats"`
}

// ItemRecord pairs a reference with its detail.
// Detail is nil when the detail page could not be fetched.
type ItemRecord struct {
	Reference ItemReference `json:"url"`
	Detail    *ItemDetail   `json:"extra,omitempty"`
}

// HasDetail reports whether the detail page was fetched.
func (r ItemRecord) HasDetail() bool {
	return r.Detail != nil
}

// TopStat returns the entry with the highest percentage.
// Ties are broken by name so the result is deterministic.
func (d *ItemDetail) TopStat() (string, float64, bool) {
	if d == nil || len(d.Stats) == 0 {
		return "", 0, false
	}
	var (
		name  string
		value float64
		found bool
	)
	for k, v := range d.Stats {
		if !found || v > value || (v == value && k < name) {
			name, value, found = k, v, true
		}
	}
	return name, value, found
}

// CrawlResult is the ordered output of one crawl run.
type CrawlResult struct {
	// Request is the request that produced this result.
	Request CrawlRequest `json:"request"`

	// Records are in discovery order across pages.
	Records []ItemRecord `json:"records"`

	// Pages is the number of listing pages fetched successfully.
	Pages int `json:"pages"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewCrawlResult creates an empty result for req.
func NewCrawlResult(req CrawlRequest) *CrawlResult {
	return &CrawlResult{
		Request: req,
		Records: make([]ItemRecord, 0),
	}
}

// Append adds records to the end of the result.
func (r *CrawlResult) Append(records ...ItemRecord) {
	r.Records = append(r.Records, records...)
}

// DetailCount returns how many records carry detail data.
func (r *CrawlResult) DetailCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.HasDetail() {
			n++
		}
	}
	return n
}

// Duration returns how long the run took.
func (r *CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// StatShares averages every stat across records with detail data.
// Records without the stat count as zero, so shares sum to at most 100.
func (r *CrawlResult) StatShares() map[string]float64 {
	shares := make(map[string]float64)
	n := r.DetailCount()
	if n == 0 {
		return shares
	}
	for _, rec := range r.Records {
		if !rec.HasDetail() {
			continue
		}
		for k, v := range rec.Detail.Stats {
			shares[k] += v
		}
	}
	for k := range shares {
		shares[k] /= float64(n)
	}
	return shares
}
