// Package model defines the data shared by the crawler, the report writers
// and the history database.
//
//   - CrawlRequest: keywords, category and proxies of one run
//   - ItemReference, ItemDetail, ItemRecord: one search result and its details
//   - CrawlResult: the ordered records of a run
//   - Rotation: how proxies and identities change between requests
//   - FetchAttempt: one try of a fetch, used for logging
//
// The types carry JSON tags because results are printed as JSON and stored
// as JSON in the history database.
package model
