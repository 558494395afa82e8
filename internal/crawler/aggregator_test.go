package crawler

import (
	"context"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/ghcrawl/internal/model"
)

func TestAggregator(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and marks failures", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.pages["https://github.com/alice/a"] = "stat Go 100"
		f.failing["https://github.com/bob/b"] = true
		f.pages["https://github.com/carol/c"] = "stat Python 60\nstat C 40"

		refs := []model.ItemReference{
			"https://github.com/alice/a",
			"https://github.com/bob/b",
			"https://github.com/carol/c",
		}
		records := NewAggregator(f, lineExtractor{}).Aggregate(context.Background(), refs)

		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i, ref := range refs {
			if records[i].Reference != ref {
				t.Errorf("record %d: expected %s, got %s", i, ref, records[i].Reference)
			}
		}
		if !records[0].HasDetail() || records[0].Detail.Owner != "alice" || records[0].Detail.Stats["Go"] != 100 {
			t.Errorf("unexpected first record: %+v", records[0].Detail)
		}
		if records[1].HasDetail() {
			t.Error("failed detail fetch must leave detail absent")
		}
		if !records[2].HasDetail() || records[2].Detail.Stats["C"] != 40 {
			t.Errorf("unexpected third record: %+v", records[2].Detail)
		}
	})

	t.Run("detail page without stats", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.pages["https://github.com/dave/d"] = "nothing here"

		records := NewAggregator(f, lineExtractor{}).Aggregate(context.Background(), []model.ItemReference{"https://github.com/dave/d"})
		if !records[0].HasDetail() {
			t.Fatal("fetched detail page must produce detail")
		}
		if len(records[0].Detail.Stats) != 0 {
			t.Errorf("expected empty stats, got %v", records[0].Detail.Stats)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		records := NewAggregator(newFakeFetcher(), lineExtractor{}).Aggregate(context.Background(), nil)
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		slow := &slowFetcher{delay: 20 * time.Millisecond}
		refs := make([]model.ItemReference, 12)
		for i := range refs {
			refs[i] = model.ItemReference("https://github.com/u/r" + string(rune('a'+i)))
		}

		records := NewAggregator(slow, lineExtractor{}, WithConcurrency(3)).Aggregate(context.Background(), refs)
		if len(records) != len(refs) {
			t.Fatalf("expected %d records, got %d", len(refs), len(records))
		}
		if peak := slow.peak.Load(); peak > 3 {
			t.Errorf("expected at most 3 concurrent fetches, saw %d", peak)
		}
	})

	t.Run("cancelled context skips fetches", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := newFakeFetcher()
		f.pages["https://github.com/a/a"] = "stat Go 1"
		records := NewAggregator(f, lineExtractor{}).Aggregate(ctx, []model.ItemReference{"https://github.com/a/a"})
		if len(records) != 1 || records[0].HasDetail() {
			t.Errorf("expected one record without detail, got %+v", records)
		}
		if len(f.callsTo("https://github.com/a/a")) != 0 {
			t.Error("no fetch expected after cancellation")
		}
	})
}

// slowFetcher tracks how many fetches run at the same time.
type slowFetcher struct {
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowFetcher) Fetch(_ context.Context, _ string, _ url.Values) (string, bool) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	return "stat Go 100", true
}
