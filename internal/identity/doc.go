// Package identity generates outbound request identities: the set of
// browser-like headers that vary the apparent client on each request.
package identity
