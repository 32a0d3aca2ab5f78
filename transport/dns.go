// File: transport/dns.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Host:port resolution per §4.G: IPv4 preferred for a bare hostname,
//   bracketed IPv6 literals ("[::1]:port") and the "*" wildcard bind
//   address both handled by delegating to net.SplitHostPort/net.ParseIP
//   before falling back to net.LookupIP.

package transport

import (
	"net"
	"strconv"

	"github.com/momentics/mpr/api"
)

// ResolveTCPAddr resolves hostport into a *net.TCPAddr following the
// IPv4-preferred, bracketed-IPv6-literal, wildcard-bind rules of §4.G.
func ResolveTCPAddr(hostport string) (*net.TCPAddr, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "bad host:port: "+hostport)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "bad port: "+portStr)
	}

	if host == "" || host == "*" {
		return &net.TCPAddr{IP: net.IPv4zero, Port: port}, nil
	}
	if ip := net.ParseIP(host); ip != nil {
		return &net.TCPAddr{IP: ip, Port: port}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return &net.TCPAddr{IP: v4, Port: port}, nil
		}
	}
	if len(ips) > 0 {
		return &net.TCPAddr{IP: ips[0], Port: port}, nil
	}
	return nil, api.ErrNotFound
}
