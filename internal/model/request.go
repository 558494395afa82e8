package model

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Crawl request validation errors.
var (
	// ErrNoKeywords is returned when a request carries no usable keyword.
	ErrNoKeywords = errors.New("no keywords specified: provide at least one search keyword")

	// ErrInvalidCategory is returned when the search category is not one of the
	// supported categories.
	ErrInvalidCategory = errors.New("invalid search category: must be one of repositories, issues, wikis")
)

// Category is the kind of search result to list.
type Category string

const (
	// CategoryRepositories lists repositories.
	CategoryRepositories Category = "repositories"
	// CategoryIssues lists issues.
	CategoryIssues Category = "issues"
	// CategoryWikis lists wiki pages.
	CategoryWikis Category = "wikis"
)

// Categories returns every supported category in display order.
func Categories() []Category {
	return []Category{CategoryRepositories, CategoryIssues, CategoryWikis}
}

// String returns the category as sent in the "type" query parameter.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is a supported category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryRepositories, CategoryIssues, CategoryWikis:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes user input ("  Repositories ") into a Category.
// It returns ErrInvalidCategory if the normalized value is not supported.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// CrawlRequest is the immutable input of a crawl run.
type CrawlRequest struct {
	// Keywords are the search terms. They are joined by a single space to
	// build the "q" query parameter.
	Keywords []string `json:"keywords"`

	// Category is the search result type.
	Category Category `json:"type"`

	// Proxies are optional relay addresses for outbound requests.
	Proxies []string `json:"-"`
}

// NewCrawlRequest builds a request, copying the slices so that later changes
// by the caller do not leak into the run.
func NewCrawlRequest(keywords []string, category Category, proxies []string) CrawlRequest {
	return CrawlRequest{
		Keywords: append([]string(nil), keywords...),
		Category: category,
		Proxies:  append([]string(nil), proxies...),
	}
}

// SplitKeywords splits comma separated input into trimmed, non-empty keywords.
func SplitKeywords(input ...string) []string {
	keywords := make([]string, 0, len(input))
	for _, in := range input {
		for _, kw := range strings.Split(in, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}

// Validate checks the request before a run starts.
func (r CrawlRequest) Validate() error {
	if strings.TrimSpace(r.Query()) == "" {
		return ErrNoKeywords
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	return nil
}

// Query returns the keywords joined by a single space.
func (r CrawlRequest) Query() string {
	return strings.Join(r.Keywords, " ")
}

// Key returns a short stable fingerprint of the query and category.
// Runs with the same key searched for the same thing.
func (r CrawlRequest) Key() string {
	sum := sha3.Sum256([]byte(r.Category.String() + "\x00" + r.Query()))
	return hex.EncodeToString(sum[:8])
}
