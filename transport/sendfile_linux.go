//go:build linux

// File: transport/sendfile_linux.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Linux sendfile(2) backend for §4.G's send_file_to_socket: headers
//   and trailers go out via writev (net.Buffers, which the runtime
//   lowers to a single writev syscall for a *net.TCPConn), the body via
//   unix.Sendfile driven through the socket's syscall.RawConn so EAGAIN
//   is handled by the runtime netpoller rather than spinning. Grounded
//   on transport/tcp/affinity_linux.go's build-tag-gated platform file
//   idiom.

package transport

import (
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func sendFile(sock *Socket, file *os.File, offset, length int64, before, after [][]byte) (int64, error) {
	var total int64

	if len(before) > 0 {
		n, err := (net.Buffers(before)).WriteTo(sock.conn)
		total += n
		if err != nil {
			return total, err
		}
	}

	tcpConn, ok := sock.conn.(syscall.Conn)
	if !ok {
		n, err := copyFallback(sock, file, offset, length)
		total += n
		if err != nil {
			return total, err
		}
	} else {
		rawConn, err := tcpConn.SyscallConn()
		if err != nil {
			return total, err
		}
		fileFD := int(file.Fd())
		remaining := length
		off := offset
		var sendErr error
		ctlErr := rawConn.Write(func(fd uintptr) bool {
			for remaining > 0 {
				n, err := unix.Sendfile(int(fd), fileFD, &off, int(remaining))
				if n > 0 {
					total += int64(n)
					remaining -= int64(n)
				}
				if err == unix.EAGAIN {
					return false
				}
				if err != nil {
					sendErr = err
					return true
				}
				if n == 0 {
					return true
				}
			}
			return true
		})
		if ctlErr != nil {
			return total, ctlErr
		}
		if sendErr != nil {
			return total, sendErr
		}
	}

	if len(after) > 0 {
		n, err := (net.Buffers(after)).WriteTo(sock.conn)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
