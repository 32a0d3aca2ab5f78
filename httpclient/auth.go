// File: httpclient/auth.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Basic and Digest (RFC 2617) authentication header computation. MD5 of
// HA1:nonce:nc:cnonce:qop:HA2, stdlib crypto/md5 only — no third-party
// crypto library appears anywhere in the pack; the teacher computes its
// own WebSocket handshake key with stdlib crypto/sha1 in the deleted
// transport/tcp/listener.go, the same "compute, don't import" idiom.

package httpclient

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Credentials holds the username/password pair used for Basic or Digest
// authentication.
type Credentials struct {
	Username string
	Password string
}

// DigestChallenge is a parsed WWW-Authenticate: Digest challenge.
type DigestChallenge struct {
	Realm     string
	Nonce     string
	QOP       string
	Opaque    string
	Algorithm string
	Domain    string
	Stale     bool
}

// ParseWWWAuthenticate parses a WWW-Authenticate header value. ok is
// false for a Basic (or unrecognized) challenge.
func ParseWWWAuthenticate(header string) (challenge *DigestChallenge, ok bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(strings.ToLower(header), "digest") {
		return nil, false
	}
	rest := strings.TrimSpace(header[len("Digest"):])
	ch := &DigestChallenge{Algorithm: "MD5"}
	for _, part := range splitAuthParams(rest) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.Trim(strings.TrimSpace(kv[1]), `"`)
		switch strings.ToLower(key) {
		case "realm":
			ch.Realm = val
		case "nonce":
			ch.Nonce = val
		case "qop":
			ch.QOP = val
		case "opaque":
			ch.Opaque = val
		case "algorithm":
			ch.Algorithm = val
		case "domain":
			ch.Domain = val
		case "stale":
			ch.Stale = strings.EqualFold(val, "true")
		}
	}
	return ch, true
}

// splitAuthParams splits a comma-separated challenge/credential param
// list, ignoring commas inside quoted values.
func splitAuthParams(s string) []string {
	var parts []string
	inQuotes := false
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// BasicAuthHeader returns the Authorization: Basic header value.
func BasicAuthHeader(c Credentials) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenerateCNonce returns a fresh random client nonce for a digest
// exchange.
func GenerateCNonce() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// DigestAuthHeader computes an Authorization: Digest header per RFC
// 2617: MD5 of HA1:nonce:nc:cnonce:qop:HA2 when qop is present, else MD5
// of HA1:nonce:HA2. Emits exactly username, realm, nonce, uri, response,
// plus cnonce/nc/qop/opaque/algorithm/domain/stale when qop is present.
func DigestAuthHeader(c Credentials, ch *DigestChallenge, method, uri string, nc int, cnonce string) string {
	ha1 := md5hex(c.Username + ":" + ch.Realm + ":" + c.Password)
	ha2 := md5hex(method + ":" + uri)
	ncStr := fmt.Sprintf("%08x", nc)

	var response string
	if ch.QOP != "" {
		response = md5hex(strings.Join([]string{ha1, ch.Nonce, ncStr, cnonce, ch.QOP, ha2}, ":"))
	} else {
		response = md5hex(ha1 + ":" + ch.Nonce + ":" + ha2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s"`,
		c.Username, ch.Realm, ch.Nonce, uri, response)
	if ch.QOP != "" {
		fmt.Fprintf(&b, `, cnonce="%s", nc=%s, qop=%s, opaque="%s"`, cnonce, ncStr, ch.QOP, ch.Opaque)
		fmt.Fprintf(&b, `, algorithm=%s, domain="%s", stale=FALSE`, ch.Algorithm, ch.Domain)
	}
	return b.String()
}
