package transport_test

import (
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/momentics/mpr/transport"
)

func TestSocketReadWriteRoundTrip(t *testing.T) {
	ln, err := transport.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *transport.Socket, 1)
	go func() {
		s, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- s
	}()

	client, err := transport.Connect("tcp", ln.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	server := <-accepted
	defer server.Close()
	server.SetBlocking(true)
	client.SetBlocking(true)

	msg := []byte("hello")
	if _, err := client.Write(msg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, len(msg))
	n, err := server.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(msg) || string(buf) != string(msg) {
		t.Fatalf("got %q, want %q", buf[:n], msg)
	}
}

func TestResolveTCPAddrWildcardAndBracketed(t *testing.T) {
	addr, err := transport.ResolveTCPAddr("*:8080")
	if err != nil {
		t.Fatalf("ResolveTCPAddr wildcard: %v", err)
	}
	if !addr.IP.Equal(net.IPv4zero) || addr.Port != 8080 {
		t.Fatalf("unexpected wildcard addr: %+v", addr)
	}

	addr, err = transport.ResolveTCPAddr("[::1]:9090")
	if err != nil {
		t.Fatalf("ResolveTCPAddr bracketed: %v", err)
	}
	if !addr.IP.Equal(net.ParseIP("::1")) || addr.Port != 9090 {
		t.Fatalf("unexpected bracketed addr: %+v", addr)
	}
}

func TestSendFileToSocketWritesHeaderBodyTrailer(t *testing.T) {
	f, err := os.CreateTemp("", "mpr-sendfile-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	body := []byte("BODYDATA")
	if _, err := f.Write(body); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	ln, err := transport.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *transport.Socket, 1)
	go func() {
		s, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- s
	}()

	client, err := transport.Connect("tcp", ln.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()
	server := <-accepted
	defer server.Close()
	client.SetBlocking(true)
	server.SetBlocking(true)

	before := [][]byte{[]byte("HEAD")}
	after := [][]byte{[]byte("TAIL")}
	n, err := transport.SendFileToSocket(client, f, 0, int64(len(body)), before, after)
	if err != nil {
		t.Fatalf("SendFileToSocket: %v", err)
	}
	want := int64(len("HEAD") + len(body) + len("TAIL"))
	if n != want {
		t.Fatalf("wrote %d bytes, want %d", n, want)
	}

	out := make([]byte, want)
	if _, err := io.ReadFull(server.Conn(), out); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(out) != "HEAD"+string(body)+"TAIL" {
		t.Fatalf("got %q", out)
	}
}
