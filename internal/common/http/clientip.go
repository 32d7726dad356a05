package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the host part of the connection's peer address.
// Forwarding headers are ignored; see ClientIPResolver.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIPResolver returns a KeyFunc that believes X-Real-IP and
// X-Forwarded-For only when the peer is one of trustedProxies. Entries are
// IPs or CIDRs. With no entries it is GetClientIP.
func ClientIPResolver(trustedProxies []string) (KeyFunc, error) {
	trusted, err := parseTrustedProxies(trustedProxies)
	if err != nil {
		return nil, err
	}
	if len(trusted) == 0 {
		return GetClientIP, nil
	}

	isTrusted := func(ip net.IP) bool {
		for _, n := range trusted {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer := GetClientIP(r)
		peerIP := net.ParseIP(peer)
		if peerIP == nil || !isTrusted(peerIP) {
			return peer
		}

		if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); realIP != nil {
			return realIP.String()
		}

		// Right to left: the first hop not added by one of our proxies is the client.
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				break
			}
			if !isTrusted(ip) {
				return ip.String()
			}
		}
		return peer
	}, nil
}

func parseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			} else {
				ip = ip.To4()
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}
