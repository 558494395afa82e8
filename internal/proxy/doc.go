// Package proxy supplies the upstream relays that outbound requests may be
// routed through.
//
// # Components
//
//   - LoadFile: reads a line-delimited proxy list; a missing file is not an error
//   - Parse / ParseAll: normalize "host:port" entries into proxy URLs
//   - Selector: chooses the relay for one fetch attempt (RandomSelector) or
//     pins one relay for a whole run (PinOnce)
//   - Prober: checks that relays accept connections (http, https, socks5)
//   - EmbeddedTor: starts a private Tor daemon whose SOCKS port can be used
//     as one more relay
//
// # Usage
//
//	entries, err := proxy.LoadFile("proxylist.txt")
//	proxies, err := proxy.ParseAll(entries)
//	selector := proxy.NewRandomSelector(proxies)
//	u := selector.Next() // nil means direct connection
package proxy
