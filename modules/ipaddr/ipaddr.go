package ipaddr

import (
	"strconv"
	"strings"
)

const mappedIPv4Prefix = "::ffff:"

// Normalize cleans a raw X-Forwarded-For value (or socket address) down to
// a single canonical client address. Order matters: first hop of the proxy
// chain, trim, strip the IPv6-mapped-IPv4 prefix, then rewrite the IPv6
// loopback to its IPv4 literal.
func Normalize(raw string) string {
	ip := raw
	if idx := strings.Index(ip, ","); idx != -1 {
		ip = ip[:idx]
	}
	ip = strings.TrimSpace(ip)
	if strings.HasPrefix(ip, mappedIPv4Prefix) {
		ip = ip[len(mappedIPv4Prefix):]
	}
	if ip == "::1" {
		ip = "127.0.0.1"
	}
	return ip
}

// IsPrivate reports whether the normalized address belongs to a loopback
// or RFC1918 range. Private addresses are never sent to the geolocation
// service.
func IsPrivate(ip string) bool {
	if ip == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.") {
		return true
	}
	if strings.HasPrefix(ip, "172.") {
		octets := strings.Split(ip, ".")
		if len(octets) >= 2 {
			second, err := strconv.Atoi(octets[1])
			if err == nil && second >= 16 && second <= 31 {
				return true
			}
		}
	}
	return false
}
