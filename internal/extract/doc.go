// Package extract turns fetched HTML into crawl data.
//
// An Extractor has two jobs: pulling item references and the next-page
// pointer out of a search results page, and pulling the per-item statistics
// out of a detail page. Both are total functions. Markup that does not match
// the expected shape yields an empty result, never an error, so layout
// changes on the remote site degrade a crawl instead of aborting it.
package extract
