package model

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "lowercase", input: "repositories", want: CategoryRepositories},
		{name: "mixed case with spaces", input: "  Issues ", want: CategoryIssues},
		{name: "uppercase", input: "WIKIS", want: CategoryWikis},
		{name: "unknown", input: "users", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCategory) {
					t.Errorf("expected ErrInvalidCategory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCrawlRequestQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		keywords []string
		want     string
	}{
		{keywords: []string{"python"}, want: "python"},
		{keywords: []string{"python", "ai"}, want: "python ai"},
		{keywords: []string{"go", "web", "crawler"}, want: "go web crawler"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			req := NewCrawlRequest(tt.keywords, CategoryRepositories, nil)
			if got := req.Query(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if strings.Contains(req.Query(), "  ") {
				t.Errorf("query must use single spaces, got %q", req.Query())
			}
		})
	}
}

func TestCrawlRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()
		req := NewCrawlRequest([]string{"python"}, CategoryRepositories, nil)
		if err := req.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("nil keywords returns ErrNoKeywords", func(t *testing.T) {
		t.Parallel()
		req := NewCrawlRequest(nil, CategoryRepositories, nil)
		if err := req.Validate(); !errors.Is(err, ErrNoKeywords) {
			t.Errorf("expected ErrNoKeywords, got %v", err)
		}
	})

	t.Run("blank keywords returns ErrNoKeywords", func(t *testing.T) {
		t.Parallel()
		req := NewCrawlRequest([]string{" ", ""}, CategoryRepositories, nil)
		if err := req.Validate(); !errors.Is(err, ErrNoKeywords) {
			t.Errorf("expected ErrNoKeywords, got %v", err)
		}
	})

	t.Run("unknown category returns ErrInvalidCategory", func(t *testing.T) {
		t.Parallel()
		req := NewCrawlRequest([]string{"python"}, Category("users"), nil)
		if err := req.Validate(); !errors.Is(err, ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})
}

func TestNewCrawlRequestCopiesInput(t *testing.T) {
	t.Parallel()

	keywords := []string{"python", "ai"}
	req := NewCrawlRequest(keywords, CategoryRepositories, nil)
	keywords[0] = "changed"

	if req.Keywords[0] != "python" {
		t.Errorf("request must not share the caller's slice, got %q", req.Keywords[0])
	}
}

func TestSplitKeywords(t *testing.T) {
	t.Parallel()

	got := SplitKeywords("python, ai", " ", "go,,web ")
	want := []string{"python", "ai", "go", "web"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCrawlRequestKey(t *testing.T) {
	t.Parallel()

	a := NewCrawlRequest([]string{"python", "ai"}, CategoryRepositories, nil)
	b := NewCrawlRequest([]string{"python", "ai"}, CategoryRepositories, []string{"p1"})
	c := NewCrawlRequest([]string{"python", "ai"}, CategoryIssues, nil)

	if a.Key() != b.Key() {
		t.Error("proxies must not change the key")
	}
	if a.Key() == c.Key() {
		t.Error("category must change the key")
	}
	if len(a.Key()) != 16 {
		t.Errorf("expected 16 hex characters, got %q", a.Key())
	}
}
