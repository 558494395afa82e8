package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/ghcrawl/internal/model"
)

// DefaultChartSlices is the number of stats shown in the pie chart before
// the rest are folded into "Other".
const DefaultChartSlices = 8

// MarkdownWriter outputs results in Markdown format for sharing.
// The stat distribution is drawn as a mermaid pie chart.
type MarkdownWriter struct {
	baseWriter

	chartSlices int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithChartSlices sets how many stats the pie chart shows.
func WithChartSlices(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		if n > 0 {
			w.chartSlices = n
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter:  newBaseWriter(output),
		chartSlices: DefaultChartSlices,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeRecords(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult) {
	category := cases.Title(language.English).String(result.Request.Category.String())
	md.H1("GitHub " + category + " Search")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Keywords", "`" + result.Request.Query() + "`"},
			{"Category", category},
			{"Query Key", "`" + result.Request.Key() + "`"},
			{"Started", formatTime(result)},
			{"Duration", result.Duration().Round(time.Millisecond).String()},
			{"Pages", strconv.Itoa(result.Pages)},
			{"Items", strconv.Itoa(len(result.Records))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Summary")
	md.PlainText("")

	total := len(result.Records)
	detailed := result.DetailCount()
	switch {
	case total == 0:
		md.Tip("The search returned no results.")
	case detailed == total:
		md.Note("Details were collected for every item.")
	case detailed == 0:
		md.Cautionf("No detail page could be fetched (%d items).", total)
	default:
		md.Warningf("Details are missing for %d of %d items.", total-detailed, total)
	}
	md.PlainText("")

	shares := topShares(result, w.chartSlices)
	if len(shares) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(statTitle(result.Request.Category)+" Share"),
		piechart.WithShowData(true),
	)
	for _, s := range shares {
		if v := math.Round(s.Percent); v > 0 {
			chart.LabelAndIntValue(s.Name, uint64(v))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Results")
	md.PlainText("")

	if len(result.Records) == 0 {
		md.PlainText("No items found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Records))
	for i, rec := range result.Records {
		owner, top := "-", "-"
		if rec.HasDetail() {
			owner = rec.Detail.Owner
			if name, pct, ok := rec.Detail.TopStat(); ok {
				top = fmt.Sprintf("%s (%.1f%%)", name, pct)
			}
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			"[" + trimScheme(rec.Reference.String()) + "](" + rec.Reference.String() + ")",
			owner,
			top,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Item", "Owner", "Top " + statTitle(result.Request.Category)},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ghcrawl](https://github.com/nao1215/ghcrawl)*")
}

// statTitle names the per-item stat for a category.
func statTitle(c model.Category) string {
	if c == model.CategoryRepositories {
		return "Language"
	}
	return "Stat"
}

func formatTime(result *model.CrawlResult) string {
	if result.StartedAt.IsZero() {
		return "-"
	}
	return result.StartedAt.Format("2006-01-02 15:04:05 MST")
}

func trimScheme(s string) string {
	s = strings.TrimPrefix(s, "https://")
	return strings.TrimPrefix(s, "http://")
}
