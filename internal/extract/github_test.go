package extract

import (
	"testing"

	"github.com/nao1215/ghcrawl/internal/model"
)

func newTestGitHub(t *testing.T) *GitHub {
	t.Helper()
	g, err := NewGitHub("")
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}
	return g
}

func TestExtractListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		wantRefs []model.ItemReference
		wantNext string
	}{
		{
			name: "two results",
			html: `
<div data-testid="results-list">
	<div class="search-title"><a href="/repo1">Repo 1</a></div>
	<div class="search-title"><a href="/repo2">Repo 2</a></div>
</div>`,
			wantRefs: []model.ItemReference{"https://github.com/repo1", "https://github.com/repo2"},
		},
		{
			name:     "empty results list",
			html:     `<div data-testid="results-list"></div>`,
			wantRefs: []model.ItemReference{},
		},
		{
			name:     "no results list",
			html:     `<div><p>No results found</p></div>`,
			wantRefs: []model.ItemReference{},
		},
		{
			name: "title without link",
			html: `
<div data-testid="results-list">
	<div class="search-title"><a href="/repo1">Repo 1</a></div>
	<div class="search-title"><span>Missing Link</span></div>
</div>`,
			wantRefs: []model.ItemReference{"https://github.com/repo1"},
		},
		{
			name: "search-title among other classes",
			html: `
<div data-testid="results-list">
	<div class="Box search-title f4"><a href="/octo/cat">octo/cat</a></div>
</div>`,
			wantRefs: []model.ItemReference{"https://github.com/octo/cat"},
		},
		{
			name: "links outside the results list are ignored",
			html: `
<div class="search-title"><a href="/ads">Sponsored</a></div>
<div data-testid="results-list">
	<div class="search-title"><a href="https://github.com/a/b">a/b</a></div>
</div>`,
			wantRefs: []model.ItemReference{"https://github.com/a/b"},
		},
		{
			name: "next page pointer",
			html: `
<div data-testid="results-list">
	<div class="search-title"><a href="/repo1">Repo 1</a></div>
</div>
<div class="pagination"><a href="/search?page=2" rel="next">Next</a></div>`,
			wantRefs: []model.ItemReference{"https://github.com/repo1"},
			wantNext: "https://github.com/search?page=2",
		},
		{
			name:     "no next page pointer",
			html:     `<html><body><div class="pagination"><!-- No next page link --></div></body></html>`,
			wantRefs: []model.ItemReference{},
		},
		{
			name:     "not html at all",
			html:     "\x00\x01binary",
			wantRefs: []model.ItemReference{},
		},
	}

	g := newTestGitHub(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := g.ExtractListing(tt.html)
			if got.References == nil {
				t.Fatal("references must never be nil")
			}
			if len(got.References) != len(tt.wantRefs) {
				t.Fatalf("expected %v, got %v", tt.wantRefs, got.References)
			}
			for i := range tt.wantRefs {
				if got.References[i] != tt.wantRefs[i] {
					t.Errorf("index %d: expected %s, got %s", i, tt.wantRefs[i], got.References[i])
				}
			}
			if got.Next != tt.wantNext {
				t.Errorf("expected next %q, got %q", tt.wantNext, got.Next)
			}
			if got.HasNext() != (tt.wantNext != "") {
				t.Errorf("HasNext() = %v", got.HasNext())
			}
		})
	}
}

func TestExtractListingCustomBase(t *testing.T) {
	t.Parallel()

	g, err := NewGitHub("http://127.0.0.1:8080")
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}

	got := g.ExtractListing(`<a rel="next" href="/search?p=2&amp;q=go">Next</a>`)
	if want := "http://127.0.0.1:8080/search?p=2&q=go"; got.Next != want {
		t.Errorf("expected %q, got %q", want, got.Next)
	}
}

func TestExtractDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want map[string]float64
	}{
		{
			name: "two languages",
			html: `
<h2>Languages</h2>
<ul>
	<a class="d-inline-flex" href="/languages/python"><span>Python</span><span>80%</span></a>
	<a class="d-inline-flex" href="/languages/javascript"><span>JavaScript</span><span>20%</span></a>
</ul>`,
			want: map[string]float64{"Python": 80, "JavaScript": 20},
		},
		{
			name: "no heading",
			html: `<div><p>No language stats available</p></div>`,
			want: map[string]float64{},
		},
		{
			name: "heading with empty list",
			html: `<h2>Languages</h2><ul><!-- No language entries here --></ul>`,
			want: map[string]float64{},
		},
		{
			name: "list before heading is ignored",
			html: `
<ul><a class="d-inline-flex"><span>Decoy</span><span>100%</span></a></ul>
<h2>About</h2>
<div><h2 class="h4">Languages</h2></div>
<div><ul>
	<li><a class="d-inline-flex"><span class="text-bold">Go</span> <span>97.3%</span></a></li>
	<li><a class="d-inline-flex"><span class="text-bold">Shell</span> <span>2.7%</span></a></li>
</ul></div>`,
			want: map[string]float64{"Go": 97.3, "Shell": 2.7},
		},
		{
			name: "unparseable percentage skipped",
			html: `
<h2>Languages</h2>
<ul>
	<a class="d-inline-flex"><span>Go</span><span>n/a</span></a>
	<a class="d-inline-flex"><span>Rust</span><span>12.5%</span></a>
	<a class="d-inline-flex"><span>Lonely</span></a>
</ul>`,
			want: map[string]float64{"Rust": 12.5},
		},
	}

	g := newTestGitHub(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := g.ExtractDetail(tt.html)
			if got == nil {
				t.Fatal("stats must never be nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s: expected %v, got %v", name, want, got[name])
				}
			}
		})
	}
}

func TestNewGitHubInvalidBase(t *testing.T) {
	t.Parallel()

	if _, err := NewGitHub("://bad"); err == nil {
		t.Error("expected error for malformed base URL")
	}
}
