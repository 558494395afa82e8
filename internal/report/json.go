package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/ghcrawl/internal/model"
)

// JSONWriter outputs results in JSON format.
// By default only the ordered record array is written, which is the
// format other tools consume. WithEnvelope adds run metadata around it.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// envelope wraps records with run metadata when true.
	envelope bool
	version  string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithEnvelope wraps the records with the request, timing and the
// generating version.
func WithEnvelope(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.envelope = true
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Envelope is the JSON document written by WithEnvelope.
type Envelope struct {
	Version    string             `json:"version"`
	Request    model.CrawlRequest `json:"request"`
	QueryKey   string             `json:"query_key"`
	Pages      int                `json:"pages"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Records    []model.ItemRecord `json:"records"`
}

// Write outputs the result in JSON format.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	records := result.Records
	if records == nil {
		records = []model.ItemRecord{}
	}
	if !w.envelope {
		return w.writeJSON(records)
	}
	return w.writeJSON(Envelope{
		Version:    w.version,
		Request:    result.Request,
		QueryKey:   result.Request.Key(),
		Pages:      result.Pages,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Records:    records,
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}
