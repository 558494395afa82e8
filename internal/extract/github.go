package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/ghcrawl/internal/model"
)

// DefaultBaseURL is the origin GitHub links are resolved against.
const DefaultBaseURL = "https://github.com"

// CSS selectors for GitHub's search and repository pages.
const (
	selectorResultLinks  = "div[data-testid='results-list'] .search-title a"
	selectorNextPage     = "a[rel='next']"
	selectorLanguageItem = "a.d-inline-flex"
	selectorLanguageName = "span"
	selectorLanguageRate = "span + span"

	languagesHeading = "Languages"
)

// GitHub extracts search results and repository language statistics
// from github.com markup.
type GitHub struct {
	base *url.URL
}

// NewGitHub creates a GitHub extractor resolving links against baseURL.
// An empty baseURL uses DefaultBaseURL.
func NewGitHub(baseURL string) (*GitHub, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &GitHub{base: u}, nil
}

// ExtractListing collects result links and the next-page link.
func (g *GitHub) ExtractListing(body string) Listing {
	listing := Listing{References: make([]model.ItemReference, 0)}

	doc, ok := parse(body)
	if !ok {
		return listing
	}

	doc.Find(selectorResultLinks).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		if resolved := g.resolve(href); resolved != "" {
			listing.References = append(listing.References, model.ItemReference(resolved))
		}
	})

	if href, exists := doc.Find(selectorNextPage).First().Attr("href"); exists {
		listing.Next = g.resolve(href)
	}

	return listing
}

// ExtractDetail reads the language breakdown under the "Languages" heading.
// Entries whose percentage does not parse are skipped.
func (g *GitHub) ExtractDetail(body string) map[string]float64 {
	stats := make(map[string]float64)

	doc, ok := parse(body)
	if !ok {
		return stats
	}

	list := languageList(doc)
	if list == nil {
		return stats
	}

	list.Find(selectorLanguageItem).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(selectorLanguageName).First().Text())
		rate := strings.TrimSpace(s.Find(selectorLanguageRate).First().Text())
		if name == "" || rate == "" {
			return
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(rate, "%")), 64)
		if err != nil {
			return
		}
		stats[name] = value
	})

	return stats
}

// languageList returns the first <ul> following the "Languages" heading in
// document order, or nil.
func languageList(doc *goquery.Document) *goquery.Selection {
	seenHeading := false
	var list *goquery.Selection
	doc.Find("h2, ul").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "h2" {
			if !seenHeading && strings.TrimSpace(s.Text()) == languagesHeading {
				seenHeading = true
			}
			return true
		}
		if seenHeading {
			list = s
			return false
		}
		return true
	})
	return list
}

// resolve turns href into an absolute URL against the base.
func (g *GitHub) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := g.base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// parse builds a goquery document. html.Parse accepts nearly anything, so
// failure here means the body was not text at all.
func parse(body string) (*goquery.Document, bool) {
	node, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, false
	}
	return goquery.NewDocumentFromNode(node), true
}
