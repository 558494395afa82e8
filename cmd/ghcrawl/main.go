// Package main provides the entry point for the ghcrawl CLI.
//
// ghcrawl searches GitHub for keywords, walks every result page, and
// collects the owner and language breakdown of each item. Requests can be
// spread over a list of HTTP or SOCKS5 proxies, or over an embedded Tor.
//
// Usage:
//
//	ghcrawl crawl nova css
//	ghcrawl crawl --type issues --proxies proxylist.txt "memory leak"
//	ghcrawl history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
