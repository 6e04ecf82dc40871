package wire

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestSocketPath(t *testing.T) {
	tests := []struct {
		name    string
		display string
		runtime string
		path    string
		err     error
	}{
		{"Default", "", "/run/user/1000", "/run/user/1000/wayland-0", nil},
		{"Named", "wayland-1", "/run/user/1000", "/run/user/1000/wayland-1", nil},
		{"Absolute", "/tmp/compositor", "", "/tmp/compositor", nil},
		{"NoRuntimeDir", "wayland-0", "", "", ErrNoRuntimeDir},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv("WAYLAND_DISPLAY", test.display)
			t.Setenv("XDG_RUNTIME_DIR", test.runtime)

			path, err := SocketPath()
			if !errors.Is(err, test.err) {
				t.Fatalf("error %v, expected %v", err, test.err)
			}
			if path != test.path {
				t.Fatalf("path %q, expected %q", path, test.path)
			}
		})
	}
}

func socketpair(t *testing.T) (*Conn, *Conn) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatal(err)
	}

	conns := make([]*Conn, 2)
	for i, fd := range fds {
		f := os.NewFile(uintptr(fd), "socketpair")
		c, err := net.FileConn(f)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		conns[i] = NewConn(c.(*net.UnixConn))
		t.Cleanup(func() { conns[i].Close() })
	}
	return conns[0], conns[1]
}

func TestConnSendFD(t *testing.T) {
	client, server := socketpair(t)

	f, err := os.Create(filepath.Join(t.TempDir(), "pool"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	e := NewEncoder(MaxMessageSize)
	e.Begin(3, 0)
	e.WriteUint(4)
	err = e.WriteFile(f)
	if err != nil {
		t.Fatal(err)
	}
	e.WriteInt(4096)
	e.End()
	defer e.Reset()

	err = client.Send(e.Bytes(), e.FDs())
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, MaxMessageSize)
	oob := make([]byte, unix.CmsgSpace(4))
	n, oobn, _, _, err := server.conn.ReadMsgUnix(buf, oob)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:n], e.Bytes()) {
		t.Fatalf("received %v", buf[:n])
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		t.Fatal(err)
	}
	if len(cmsgs) != 1 {
		t.Fatalf("%v control messages", len(cmsgs))
	}
	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(fds) != 1 {
		t.Fatalf("received %v descriptors", len(fds))
	}
	unix.Close(fds[0])
}

func TestConnReceive(t *testing.T) {
	client, server := socketpair(t)

	msg := header(1, 1, 8)
	err := server.Send(msg, nil)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, MaxMessageSize)
	n, err := client.Receive(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Fatalf("received %v", buf[:n])
	}

	server.Close()
	_, err = client.Receive(buf)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("error %v after close", err)
	}
}
