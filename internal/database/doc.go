// Package database provides SQLite-based run history for ghcrawl.
//
// Every finished crawl is stored as one row in the runs table, keyed by the
// request fingerprint, together with the full result as JSON and one row per
// discovered item. This lets the history command list earlier runs for the
// same query and reprint any of them without crawling again.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite, so the database is a
// single file under the XDG data directory.
package database
