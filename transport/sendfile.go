// File: transport/sendfile.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   SendFileToSocket is the public §4.G entry point; the platform-split
//   sendFile implementation lives in sendfile_linux.go / sendfile_other.go.

package transport

import (
	"io"
	"os"
)

// SendFileToSocket writes before, then length bytes of file starting at
// offset, then after, to sock. Prefers the OS's sendfile(2) on Linux;
// falls back to a userspace copy loop elsewhere.
func SendFileToSocket(sock *Socket, file *os.File, offset, length int64, before, after [][]byte) (int64, error) {
	return sendFile(sock, file, offset, length, before, after)
}

func copyFallback(sock *Socket, file *os.File, offset, length int64) (int64, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.CopyN(sock.conn, file, length)
	if err == io.EOF {
		err = nil
	}
	return n, err
}
