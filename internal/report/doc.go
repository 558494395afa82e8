// Package report writes crawl results.
//
// Three formats are provided:
//   - JSONWriter: the ordered record array, indented, for other tools
//   - MarkdownWriter: tables and a mermaid pie chart of stat shares
//   - SimpleWriter: plain text for terminal display
//
// Writers implement the Writer interface and can be combined with MultiWriter.
package report
