package proxy

import (
	"math/rand/v2"
	"net/url"
	"testing"
)

func mustParseAll(t *testing.T, entries ...string) []*url.URL {
	t.Helper()
	proxies, err := ParseAll(entries)
	if err != nil {
		t.Fatalf("failed to parse proxies: %v", err)
	}
	return proxies
}

func TestRandomSelector(t *testing.T) {
	t.Parallel()

	t.Run("no proxies means direct", func(t *testing.T) {
		t.Parallel()
		s := NewRandomSelector(nil)
		if s.Next() != nil {
			t.Error("expected nil proxy")
		}
		if s.Len() != 0 {
			t.Errorf("expected 0 proxies, got %d", s.Len())
		}
	})

	t.Run("returns members of the pool", func(t *testing.T) {
		t.Parallel()

		proxies := mustParseAll(t, "p1:1", "p2:2", "p3:3")
		s := NewRandomSelector(proxies, WithSelectorRand(rand.New(rand.NewPCG(7, 7))))

		seen := make(map[string]bool)
		for range 100 {
			u := s.Next()
			if u == nil {
				t.Fatal("expected a proxy")
			}
			seen[u.Host] = true
		}
		for _, p := range proxies {
			if !seen[p.Host] {
				t.Errorf("proxy %s never selected in 100 draws", p.Host)
			}
		}
	})
}

func TestPinOnce(t *testing.T) {
	t.Parallel()

	t.Run("repeats the first draw", func(t *testing.T) {
		t.Parallel()

		s := PinOnce(NewRandomSelector(mustParseAll(t, "p1:1", "p2:2", "p3:3")))
		first := s.Next()
		if first == nil {
			t.Fatal("expected a proxy")
		}
		for range 20 {
			if s.Next() != first {
				t.Fatal("pinned selector must return the same proxy")
			}
		}
	})

	t.Run("empty pool pins direct", func(t *testing.T) {
		t.Parallel()
		if PinOnce(NewRandomSelector(nil)).Next() != nil {
			t.Error("expected nil proxy")
		}
	})
}
