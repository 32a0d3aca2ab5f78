// File: fs/rom.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ROM provider serves a compile-time hash of {path, data} entries keyed by
// canonicalized path; writes fail with a read-only error (ErrNotSupported,
// mirroring the C runtime's MPR_ERR_READ_ONLY).

package fs

import (
	"bytes"
	"io"

	"github.com/momentics/mpr/api"
)

// ROMEntry is one compiled-in file image.
type ROMEntry struct {
	Path string
	Data []byte
}

// ROM is a read-only FileSystem backed by an in-memory image table.
type ROM struct {
	Root          string
	entries       map[string]ROMEntry
	caseSensitive bool
}

// NewROM builds a ROM provider from a literal entry table, as a build
// step would generate from the original filesystem image.
func NewROM(root string, entries []ROMEntry, caseSensitive bool) *ROM {
	m := make(map[string]ROMEntry, len(entries))
	for _, e := range entries {
		key := e.Path
		if !caseSensitive {
			key = lowerASCII(key)
		}
		m[key] = e
	}
	return &ROM{Root: root, entries: m, caseSensitive: caseSensitive}
}

func (r *ROM) lookup(p string) (ROMEntry, error) {
	n, err := Normalize(r.Root, p)
	if err != nil {
		return ROMEntry{}, err
	}
	key := n
	if !r.caseSensitive {
		key = lowerASCII(key)
	}
	e, ok := r.entries[key]
	if !ok {
		return ROMEntry{}, api.ErrNotFound
	}
	return e, nil
}

func (r *ROM) Open(p string, flags int, _ uint32) (File, error) {
	if flags&(OpenWrite|OpenCreate|OpenTruncate|OpenAppend) != 0 {
		return nil, api.ErrNotSupported
	}
	e, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	return &romFile{r: bytes.NewReader(e.Data)}, nil
}

func (r *ROM) Access(p string) error {
	_, err := r.lookup(p)
	return err
}

func (r *ROM) Delete(string) error                      { return api.ErrNotSupported }
func (r *ROM) Mkdir(string, uint32) error                { return api.ErrNotSupported }
func (r *ROM) MakeLink(string, string, bool) error       { return api.ErrNotSupported }
func (r *ROM) Readlink(string) (string, error)           { return "", api.ErrNotSupported }
func (r *ROM) ReadOnly() bool                            { return true }
func (r *ROM) CaseSensitive() bool                       { return r.caseSensitive }

func (r *ROM) Stat(p string) (Info, error) {
	e, err := r.lookup(p)
	if err != nil {
		return Info{}, err
	}
	return Info{Size: int64(len(e.Data))}, nil
}

// romFile adapts a bytes.Reader to the File contract; Write always fails.
type romFile struct {
	r *bytes.Reader
}

func (f *romFile) Read(p []byte) (int, error)  { return f.r.Read(p) }
func (f *romFile) Write([]byte) (int, error)   { return 0, api.ErrNotSupported }
func (f *romFile) Close() error                { return nil }
func (f *romFile) Seek(offset int64, whence int) (int64, error) {
	return f.r.Seek(offset, whence)
}

var _ io.ReadSeeker = (*romFile)(nil)

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
