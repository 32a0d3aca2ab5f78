package httpclient_test

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/momentics/mpr/httpclient"
)

func TestParseURLDefaultsAndRoundTrip(t *testing.T) {
	u, err := httpclient.ParseURL("http://example.com/a/b?x=1#frag")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Host != "example.com" || u.Port != 80 || u.Path != "/a/b" || u.Query != "x=1" || u.Fragment != "frag" {
		t.Fatalf("unexpected parse: %+v", u)
	}
	if got := u.String(); got != "http://example.com/a/b?x=1#frag" {
		t.Fatalf("round trip mismatch: %s", got)
	}
}

func TestParseURLBracketedIPv6(t *testing.T) {
	u, err := httpclient.ParseURL("https://[::1]:8443/path")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Host != "[::1]" || u.Port != 8443 {
		t.Fatalf("unexpected host/port: %+v", u)
	}
}

func TestDigestAuthHeaderFields(t *testing.T) {
	creds := httpclient.Credentials{Username: "u", Password: "p"}
	challenge := &httpclient.DigestChallenge{Realm: "r", Nonce: "n", QOP: "auth"}
	header := httpclient.DigestAuthHeader(creds, challenge, "GET", "/x", 1, "cn")

	for _, want := range []string{`username="u"`, `realm="r"`, `nonce="n"`, `nc=00000001`, `qop=auth`, `cnonce="cn"`} {
		if !strings.Contains(header, want) {
			t.Fatalf("header missing %q: %s", want, header)
		}
	}
}

func TestParseWWWAuthenticateDigest(t *testing.T) {
	ch, ok := httpclient.ParseWWWAuthenticate(`Digest realm="r", nonce="n", qop="auth"`)
	if !ok {
		t.Fatal("expected digest challenge")
	}
	if ch.Realm != "r" || ch.Nonce != "n" || ch.QOP != "auth" {
		t.Fatalf("unexpected challenge: %+v", ch)
	}
}

func TestChunkedReadMatchesScenario(t *testing.T) {
	raw := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	br := bufio.NewReader(strings.NewReader(raw))
	cr := httpclient.NewChunkReader(br)

	var body []byte
	for {
		chunk, err := cr.ReadChunk()
		if err != nil {
			break
		}
		body = append(body, chunk...)
	}
	if string(body) != "hello world" {
		t.Fatalf("got %q", body)
	}
}

func TestChunkedWriteThenReadRoundTrip(t *testing.T) {
	var buf strings.Builder
	cw := httpclient.NewChunkWriter(&buf)
	cw.Write([]byte("hello"))
	cw.Write([]byte(" world"))
	cw.Finalize()

	br := bufio.NewReader(strings.NewReader(buf.String()))
	cr := httpclient.NewChunkReader(br)
	var body []byte
	for {
		chunk, err := cr.ReadChunk()
		if err != nil {
			break
		}
		body = append(body, chunk...)
	}
	if string(body) != "hello world" {
		t.Fatalf("got %q", body)
	}
}

func TestDoHandlesChunkedResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		br := bufio.NewReader(conn)
		for {
			line, err := br.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		conn.Write([]byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"))
	}()

	addr := ln.Addr().(*net.TCPAddr)
	u, err := httpclient.ParseURL("http://127.0.0.1:" + strconv.Itoa(addr.Port) + "/")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}

	c := httpclient.NewClient()
	resp, err := c.Do(&httpclient.Request{Method: "GET", URL: u})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != 200 || string(resp.Body) != "hello world" || !resp.KeepAlive {
		t.Fatalf("unexpected response: %+v body=%q", resp, resp.Body)
	}
}
