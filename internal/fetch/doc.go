// Package fetch implements the page fetcher: a single GET with a bounded
// retry budget, a per-attempt timeout and a randomized backoff between
// attempts.
//
// Every attempt draws a fresh identity and proxy from the injected
// generators. A Fetcher never returns an error for network faults; it
// reports absence instead, and the caller decides whether the missing page
// matters. Each attempt is logged as one structured line.
//
// A Session owns the HTTP client shared by every attempt of a crawl run.
// The proxy for an attempt travels in the request context, so one transport
// and its connection pools serve all proxies.
package fetch
