// Package crawler drives a search crawl from the first listing page to the
// last item detail.
//
// # Components
//
//   - Walker: follows next-page pointers through a search listing, one page
//     at a time
//   - Aggregator: fetches the detail pages of one listing page concurrently
//     and keeps the records in listing order
//   - Crawler: owns a run's lifecycle (init, running, done), its HTTP session
//     and its proxy and identity rotation
//   - RobotsChecker: optional robots.txt gate before the first request
//
// # Failure handling
//
// Network failures never abort a run. A listing page that cannot be fetched
// ends pagination with the records collected so far. A detail page that
// cannot be fetched yields a record without detail. Only an invalid request
// or a cancelled context is reported as an error.
//
// # Usage
//
//	extractor, _ := extract.NewGitHub("")
//	c := crawler.New(extractor, crawler.WithLogger(logger))
//	result, err := c.Run(ctx, model.NewCrawlRequest([]string{"python", "ai"}, model.CategoryRepositories, nil))
package crawler
