// File: httpclient/url.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// URL parses scheme://host[:port]/path?query#ref with the §6 defaults:
// scheme http, port 80 (443 for https). Hand-tokenized rather than using
// net/url, matching the teacher's own manual header/line tokenization in
// the deleted transport/tcp/listener.go rather than a higher-level parser.

package httpclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/momentics/mpr/api"
)

// URL is a parsed absolute HTTP(S) URL.
type URL struct {
	Scheme   string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string
}

// ParseURL parses raw into a URL, defaulting scheme to http and port to
// the scheme's default when omitted.
func ParseURL(raw string) (*URL, error) {
	u := &URL{Scheme: "http", Path: "/"}
	rest := raw

	if idx := strings.Index(rest, "://"); idx >= 0 {
		u.Scheme = strings.ToLower(rest[:idx])
		rest = rest[idx+3:]
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, api.ErrUnsupportedScheme
	}

	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		u.Fragment = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		u.Query = rest[idx+1:]
		rest = rest[:idx]
	}

	hostport := rest
	path := "/"
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		hostport = rest[:idx]
		path = rest[idx:]
	}
	u.Path = path

	host := hostport
	port := 0
	switch {
	case strings.HasPrefix(hostport, "["):
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "bad bracketed host: "+hostport)
		}
		host = hostport[:end+1]
		remainder := hostport[end+1:]
		if strings.HasPrefix(remainder, ":") {
			p, err := strconv.Atoi(remainder[1:])
			if err != nil {
				return nil, api.NewError(api.ErrCodeInvalidArgument, "bad port: "+remainder)
			}
			port = p
		}
	case strings.LastIndexByte(hostport, ':') >= 0:
		idx := strings.LastIndexByte(hostport, ':')
		host = hostport[:idx]
		p, err := strconv.Atoi(hostport[idx+1:])
		if err != nil {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "bad port: "+hostport)
		}
		port = p
	}
	u.Host = host

	if port == 0 {
		if u.Scheme == "https" {
			port = 443
		} else {
			port = 80
		}
	}
	u.Port = port
	return u, nil
}

// String reconstructs the canonical URL; format(parse(u)) == u for any
// canonical absolute URL (§8 round-trip law).
func (u *URL) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	defaultPort := 80
	if u.Scheme == "https" {
		defaultPort = 443
	}
	if u.Port != defaultPort {
		fmt.Fprintf(&b, ":%d", u.Port)
	}
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}
