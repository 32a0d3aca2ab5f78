// File: httpclient/chunked.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Outgoing and incoming HTTP/1.1 chunked transfer-encoding (RFC 7230
// §4.1). The writer emits "SIZE\r\nDATA\r\n" per write and a
// "0\r\n\r\n" terminator on Finalize; the reader parses "SIZE[;ext]\r\n"
// chunk headers with the 80-byte chunk-extension cap decided in
// DESIGN.md's OQ-1, rejecting cleanly with api.ErrBadChunk rather than
// a best-effort partial parse.

package httpclient

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/momentics/mpr/api"
)

const maxChunkExtLen = 80

// ChunkWriter streams a chunked request or response body.
type ChunkWriter struct {
	w io.Writer
}

// NewChunkWriter wraps w as a chunked encoder.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w}
}

// Write emits one chunk containing p. Writing a zero-length slice is
// equivalent to calling Finalize, matching "write(_, 0) ... emits the
// terminating chunk" from §4.H.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, cw.Finalize()
	}
	if _, err := fmt.Fprintf(cw.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := cw.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := cw.w.Write([]byte("\r\n")); err != nil {
		return n, err
	}
	return n, nil
}

// Finalize emits the terminating zero-size chunk.
func (cw *ChunkWriter) Finalize() error {
	_, err := cw.w.Write([]byte("0\r\n\r\n"))
	return err
}

// ChunkReader parses an incoming chunked body.
type ChunkReader struct {
	br *bufio.Reader
}

// NewChunkReader wraps br (which must be positioned at the first chunk
// header) as a chunked decoder.
func NewChunkReader(br *bufio.Reader) *ChunkReader {
	return &ChunkReader{br: br}
}

// ReadChunk returns the next chunk's data, or (nil, io.EOF) once the
// terminating zero-size chunk and any trailer headers have been
// consumed.
func (cr *ChunkReader) ReadChunk() ([]byte, error) {
	line, err := cr.br.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")

	sizeStr := line
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		sizeStr = line[:idx]
		if len(line)-idx-1 > maxChunkExtLen {
			return nil, api.ErrBadChunk
		}
	}
	size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 16, 64)
	if err != nil || size < 0 {
		return nil, api.ErrBadChunk
	}

	if size == 0 {
		for {
			l, err := cr.br.ReadString('\n')
			if err != nil {
				return nil, err
			}
			if l == "\r\n" || l == "\n" {
				break
			}
		}
		return nil, io.EOF
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(cr.br, data); err != nil {
		return nil, err
	}
	trailer := make([]byte, 2)
	if _, err := io.ReadFull(cr.br, trailer); err != nil {
		return nil, err
	}
	if string(trailer) != "\r\n" {
		return nil, api.ErrBadChunk
	}
	return data, nil
}
