package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ghcrawl/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose prints every stat of each item instead of the top one.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose prints every stat of each item.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeRecords(&sb, result)
	w.writeShares(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      GITHUB SEARCH RESULTS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Keywords:  %s\n", result.Request.Query())
	fmt.Fprintf(sb, "Category:  %s\n", result.Request.Category)
	fmt.Fprintf(sb, "Started:   %s\n", formatTime(result))
	fmt.Fprintf(sb, "Pages:     %d\n", result.Pages)
	fmt.Fprintf(sb, "Items:     %d (%d with details)\n", len(result.Records), result.DetailCount())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRecords(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ITEMS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Records) == 0 {
		sb.WriteString("  No items found\n\n")
		return
	}

	for i, rec := range result.Records {
		fmt.Fprintf(sb, "  %3d. %s\n", i+1, rec.Reference)
		if !rec.HasDetail() {
			sb.WriteString("       (details unavailable)\n")
			continue
		}
		if !w.verbose {
			if name, pct, ok := rec.Detail.TopStat(); ok {
				fmt.Fprintf(sb, "       owner: %s, top: %s %.1f%%\n", rec.Detail.Owner, name, pct)
			} else {
				fmt.Fprintf(sb, "       owner: %s\n", rec.Detail.Owner)
			}
			continue
		}
		fmt.Fprintf(sb, "       owner: %s\n", rec.Detail.Owner)
		for _, s := range sortedStats(rec.Detail.Stats) {
			fmt.Fprintf(sb, "       %-20s %5.1f%%\n", s.Name, s.Percent)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeShares(sb *strings.Builder, result *model.CrawlResult) {
	shares := topShares(result, DefaultChartSlices)
	if len(shares) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(statTitle(result.Request.Category)) + " SHARE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, s := range shares {
		bar := strings.Repeat("#", int(s.Percent/2))
		fmt.Fprintf(sb, "  %-20s %5.1f%% %s\n", s.Name, round1(s.Percent), bar)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
