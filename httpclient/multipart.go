// File: httpclient/multipart.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// multipart/form-data upload per §4.H: upload(file_list, form_list)
// emits Content-Disposition parts for form fields and file contents
// interleaved, with a boundary derived from the current time.

package httpclient

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
)

// FormField is a plain form-data value to upload.
type FormField struct {
	Name  string
	Value string
}

// FileField is a file part to upload.
type FileField struct {
	Name     string
	FileName string
	Content  io.Reader
}

// MultipartWriter streams a multipart/form-data body.
type MultipartWriter struct {
	w        io.Writer
	boundary string
}

// NewMultipartWriter wraps w with the given boundary.
func NewMultipartWriter(w io.Writer, boundary string) *MultipartWriter {
	return &MultipartWriter{w: w, boundary: boundary}
}

// Boundary returns the boundary string in use.
func (mw *MultipartWriter) Boundary() string { return mw.boundary }

// WriteField emits one form-data field part.
func (mw *MultipartWriter) WriteField(f FormField) error {
	_, err := fmt.Fprintf(mw.w, "--%s\r\nContent-Disposition: form-data; name=\"%s\"\r\n\r\n%s\r\n",
		mw.boundary, f.Name, f.Value)
	return err
}

// WriteFile emits one file part, copying f.Content into the body.
func (mw *MultipartWriter) WriteFile(f FileField) error {
	ctype := mime.TypeByExtension(filepath.Ext(f.FileName))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	if _, err := fmt.Fprintf(mw.w, "--%s\r\nContent-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\nContent-Type: %s\r\n\r\n",
		mw.boundary, f.Name, f.FileName, ctype); err != nil {
		return err
	}
	if _, err := io.Copy(mw.w, f.Content); err != nil {
		return err
	}
	_, err := mw.w.Write([]byte("\r\n"))
	return err
}

// Close emits the closing boundary.
func (mw *MultipartWriter) Close() error {
	_, err := fmt.Fprintf(mw.w, "--%s--\r\n", mw.boundary)
	return err
}

// NewBoundary derives a multipart boundary from the current time
// (nowUnixNano), per §4.H ("a boundary is generated from the current
// time").
func NewBoundary(nowUnixNano int64) string {
	return "mpr-boundary-" + strconv.FormatInt(nowUnixNano, 16)
}
