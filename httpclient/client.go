// File: httpclient/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client drives the §4.H request/response state machine over a
// transport.Socket: assemble request line/headers (with Basic/Digest
// Authorization when credentials are set), stream the body (plain or
// chunked), then parse the response status line, headers, and
// Content-Length/chunked body. A single automatic 401 retry and 3xx
// redirect retry are applied, matching "mpr_http_request blocks until
// COMPLETE" from §5 — Do() is synchronous from the caller's
// perspective, generalizing the blocking semantics the teacher's
// internal/concurrency primitives use for their own blocking calls.

package httpclient

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/momentics/mpr/api"
	"github.com/momentics/mpr/transport"
)

// Request describes one HTTP/1.1 request.
type Request struct {
	Method          string
	URL             *URL
	Headers         map[string]string
	Body            []byte
	Chunked         bool
	Credentials     *Credentials
	FollowRedirects bool
	ProxyHost       string
	ProxyPort       int
	Timeout         time.Duration
}

// Response is a parsed HTTP/1.1 response.
type Response struct {
	StatusCode int
	StatusMsg  string
	Headers    map[string]string
	Body       []byte
	KeepAlive  bool
}

// Client is a connection-per-request HTTP/1.1 client implementing §4.H.
type Client struct {
	timeout time.Duration
}

// NewClient returns a client with a default 30s per-request timeout.
func NewClient() *Client {
	return &Client{timeout: 30 * time.Second}
}

type authRetry struct {
	credentials Credentials
	challenge   *DigestChallenge // nil means Basic
}

// Do executes req, automatically retrying once on 401 (with
// credentials) and once on a 3xx redirect (when FollowRedirects is
// set and a Location header is present).
func (c *Client) Do(req *Request) (*Response, error) {
	resp, err := c.doOnce(req, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == 401 && req.Credentials != nil {
		challenge, isDigest := ParseWWWAuthenticate(resp.Headers["www-authenticate"])
		retry := &authRetry{credentials: *req.Credentials}
		if isDigest {
			retry.challenge = challenge
		}
		resp, err = c.doOnce(req, retry)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 && req.FollowRedirects {
		if loc := resp.Headers["location"]; loc != "" {
			redirected, perr := ParseURL(loc)
			if perr == nil {
				next := *req
				next.URL = redirected
				resp, err = c.doOnce(&next, nil)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return resp, nil
}

func (c *Client) doOnce(req *Request, retry *authRetry) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	host := req.URL.Host
	port := req.URL.Port
	if req.ProxyHost != "" {
		host = req.ProxyHost
		port = req.ProxyPort
	}

	sock, err := transport.Connect("tcp", fmt.Sprintf("%s:%d", trimBrackets(host), port), timeout)
	if err != nil {
		return nil, err
	}
	defer sock.Close()
	sock.SetBlocking(true)

	if err := c.writeRequest(sock, req, retry); err != nil {
		return nil, err
	}
	return c.readResponse(sock)
}

func trimBrackets(h string) string {
	return strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
}

func (c *Client) writeRequest(sock *transport.Socket, req *Request, retry *authRetry) error {
	path := req.URL.Path
	if req.URL.Query != "" {
		path += "?" + req.URL.Query
	}

	headers := make(map[string]string, len(req.Headers)+2)
	for k, v := range req.Headers {
		headers[k] = v
	}
	if req.Chunked {
		headers["Transfer-Encoding"] = "chunked"
	} else if req.Body != nil {
		headers["Content-Length"] = strconv.Itoa(len(req.Body))
	}
	if retry != nil {
		if retry.challenge != nil {
			headers["Authorization"] = DigestAuthHeader(retry.credentials, retry.challenge, req.Method, path, 1, GenerateCNonce())
		} else {
			headers["Authorization"] = BasicAuthHeader(retry.credentials)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", req.Method, path)
	fmt.Fprintf(&b, "Host: %s\r\n", req.URL.Host)
	for k, v := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	b.WriteString("\r\n")

	if _, err := sock.Write([]byte(b.String())); err != nil {
		return err
	}

	if req.Chunked {
		cw := NewChunkWriter(sockWriter{sock})
		if len(req.Body) > 0 {
			if _, err := cw.Write(req.Body); err != nil {
				return err
			}
		}
		return cw.Finalize()
	}
	if len(req.Body) > 0 {
		if _, err := sock.Write(req.Body); err != nil {
			return err
		}
	}
	return nil
}

type sockWriter struct{ s *transport.Socket }

func (w sockWriter) Write(p []byte) (int, error) { return w.s.Write(p) }

type sockReader struct{ s *transport.Socket }

func (r sockReader) Read(p []byte) (int, error) { return r.s.Read(p) }

// readResponse parses the status line and headers, resetting the header
// buffer and continuing to read past any 100-199 informational
// response, then drains the body per Content-Length or chunked
// transfer-encoding.
func (c *Client) readResponse(sock *transport.Socket) (*Response, error) {
	br := bufio.NewReader(sockReader{sock})

	for {
		statusLine, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		statusLine = strings.TrimRight(statusLine, "\r\n")

		headers := map[string]string{}
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return nil, err
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				break
			}
			if idx := strings.IndexByte(line, ':'); idx > 0 {
				key := strings.ToLower(strings.TrimSpace(line[:idx]))
				headers[key] = strings.TrimSpace(line[idx+1:])
			}
		}

		parts := strings.SplitN(statusLine, " ", 3)
		if len(parts) < 2 {
			return nil, api.ErrBadHeader
		}
		code, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, api.ErrBadHeader
		}
		if code >= 100 && code < 200 {
			continue
		}

		resp := &Response{StatusCode: code, Headers: headers}
		if len(parts) == 3 {
			resp.StatusMsg = parts[2]
		}
		resp.KeepAlive = !strings.EqualFold(headers["connection"], "close")

		if strings.EqualFold(headers["transfer-encoding"], "chunked") {
			cr := NewChunkReader(br)
			var body []byte
			for {
				chunk, err := cr.ReadChunk()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, err
				}
				body = append(body, chunk...)
			}
			resp.Body = body
		} else if cl, ok := headers["content-length"]; ok {
			n, err := strconv.Atoi(cl)
			if err != nil {
				return nil, api.ErrBadHeader
			}
			body := make([]byte, n)
			if n > 0 {
				if _, err := io.ReadFull(br, body); err != nil {
					return nil, err
				}
			}
			resp.Body = body
		}
		return resp, nil
	}
}
