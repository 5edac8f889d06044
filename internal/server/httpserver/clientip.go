package httpserver

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver picks the address a request is rate limited and logged
// under. X-Forwarded-For and X-Real-IP are honoured only when the direct
// peer falls inside one of the trusted proxy prefixes. A nil resolver
// trusts no one.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver returns a resolver that believes forwarding headers
// sent by peers in trusted.
func NewClientIPResolver(trusted []netip.Prefix) *ClientIPResolver {
	return &ClientIPResolver{trusted: trusted}
}

func (c *ClientIPResolver) trusts(a netip.Addr) bool {
	if c == nil {
		return false
	}
	a = a.Unmap()
	for _, p := range c.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// Resolve returns the client address of r.
//
// X-Forwarded-For is walked right to left and the first hop that is not a
// trusted proxy wins. A malformed hop stops the walk at the last trusted
// address seen.
func (c *ClientIPResolver) Resolve(r *http.Request) string {
	peer := remoteHost(r)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !c.trusts(addr) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		last := addr.Unmap().String()
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return last
			}
			hop = hop.Unmap()
			if !c.trusts(hop) {
				return hop.String()
			}
			last = hop.String()
		}
		return last
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if a, err := netip.ParseAddr(xri); err == nil {
			return a.Unmap().String()
		}
	}
	return peer
}

// remoteHost strips the port from RemoteAddr, handling IPv6 like [::1]:8080.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
