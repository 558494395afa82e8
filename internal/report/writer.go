package report

import (
	"io"
	"math"
	"sort"

	"github.com/nao1215/ghcrawl/internal/model"
)

// Writer outputs a crawl result in one format.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// MultiWriter writes to multiple Writers, for example the terminal and a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.CrawlResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// share is one entry of the aggregated stat distribution.
type share struct {
	Name    string
	Percent float64
}

// otherLabel groups the shares beyond the display limit.
const otherLabel = "Other"

// topShares returns the aggregated stat shares, largest first. When there
// are more than limit entries the tail is folded into a single "Other" entry.
// A limit of zero or less keeps every entry.
func topShares(result *model.CrawlResult, limit int) []share {
	shares := sortedStats(result.StatShares())
	if limit <= 0 || len(shares) <= limit {
		return shares
	}
	other := share{Name: otherLabel}
	for _, s := range shares[limit:] {
		other.Percent += s.Percent
	}
	return append(shares[:limit], other)
}

// sortedStats orders stats largest first, ties by name.
func sortedStats(stats map[string]float64) []share {
	shares := make([]share, 0, len(stats))
	for name, pct := range stats {
		shares = append(shares, share{Name: name, Percent: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// round1 rounds to one decimal place for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
