package links

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	dialTimeout     = 2 * time.Second
	maxAddrAttempts = 3
)

// Reachable reports whether the URL's host accepts a TCP connection.
//
// Best-effort: up to three resolved addresses are tried in order with a
// two-second timeout each, so one call can block for roughly six seconds
// in the worst case. DNS failure or all attempts failing means
// unreachable. This judges host reachability only, not that the URL
// itself resolves to anything meaningful.
func Reachable(ctx context.Context, rawURL string) bool {
	host, port, ok := parseHostPort(rawURL)
	if !ok {
		return false
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return false
	}

	if len(addrs) > maxAddrAttempts {
		addrs = addrs[:maxAddrAttempts]
	}

	dialer := net.Dialer{Timeout: dialTimeout}

	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, port))
		if err == nil {
			_ = conn.Close()
			return true
		}
	}

	return false
}

// parseHostPort extracts host and port from scheme://[userinfo@]host[:port]/...
// URLs. The default port is 443 for https, 80 otherwise. Bracketed IPv6
// host literals are supported; userinfo before '@' is discarded.
func parseHostPort(rawURL string) (host, port string, ok bool) {
	scheme, rest, found := strings.Cut(rawURL, "://")
	if !found {
		return "", "", false
	}

	authority := rest
	if index := strings.IndexAny(authority, "/?#"); index >= 0 {
		authority = authority[:index]
	}

	if index := strings.LastIndex(authority, "@"); index >= 0 {
		authority = authority[index+1:]
	}

	defaultPort := "80"
	if strings.EqualFold(scheme, "https") {
		defaultPort = "443"
	}

	if strings.HasPrefix(authority, "[") {
		end := strings.Index(authority, "]")
		if end < 0 {
			return "", "", false
		}

		host = authority[1:end]
		port = defaultPort

		if rest := authority[end+1:]; strings.HasPrefix(rest, ":") {
			if parsed, valid := parsePort(rest[1:]); valid {
				port = parsed
			}
		}

		return host, port, host != ""
	}

	if index := strings.LastIndex(authority, ":"); index >= 0 {
		if parsed, valid := parsePort(authority[index+1:]); valid {
			return authority[:index], parsed, authority[:index] != ""
		}
	}

	return authority, defaultPort, authority != ""
}

func parsePort(value string) (string, bool) {
	number, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return "", false
	}

	return strconv.FormatUint(number, 10), true
}
