package util

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

// hostnameRe matches RFC 1123 hostnames: dot-separated labels of
// letters, digits and inner hyphens.
var hostnameRe = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.?$`)

// ValidateHost accepts an IPv4 literal or a syntactically valid
// hostname.  IPv6 literals are rejected; robots are addressed over IPv4.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("host is empty")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return fmt.Errorf("%q is not an IPv4 address", host)
		}
		return nil
	}
	if len(host) > 253 || !hostnameRe.MatchString(host) {
		return fmt.Errorf("%q is neither an IPv4 address nor a hostname", host)
	}
	return nil
}

// ValidatePort checks that port is within 0-65535.  Both config
// validation and link.Controller.Connect use this range.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port %d out of range 0-65535", port)
	}
	return nil
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FindFreeUDPPort returns a UDP port on 127.0.0.1 that was free at the
// time of the call.
func FindFreeUDPPort() (int, error) {
	c, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer c.Close()
	return c.LocalAddr().(*net.UDPAddr).Port, nil
}
