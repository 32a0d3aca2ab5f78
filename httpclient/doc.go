// Package httpclient implements the §4.H HTTP/1.1 request/response state
// machine (BEGIN -> WAIT -> CONTENT/CHUNK -> COMPLETE) over a
// transport.Socket: header assembly, chunked transfer encoding, basic and
// digest authentication with a single automatic 401 retry, 3xx redirect
// retry, and multipart/form-data upload.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package httpclient
