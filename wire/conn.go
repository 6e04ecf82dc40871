package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// maxFDs is the most file descriptors that libwayland will send with
// a single write.
const maxFDs = 28

// SocketPath determines the path to the Wayland Unix domain socket
// based on the contents of the $WAYLAND_DISPLAY environment variable.
// It does not attempt to determine if the value corresponds to an
// actual socket.
func SocketPath() (string, error) {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok || v == "" {
		v = "wayland-0"
	}
	if filepath.IsAbs(v) {
		return v, nil
	}

	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if !ok || dir == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(dir, v), nil
}

// Conn represents a low-level Wayland connection. It moves bytes
// and file descriptors but knows nothing about message boundaries.
type Conn struct {
	conn *net.UnixConn
	oob  []byte
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
		oob:  make([]byte, unix.CmsgSpace(maxFDs*4)),
	}
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
		defer file.Close()

		c, err := net.FileConn(file)
		if err != nil {
			return nil, fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
		}
		uc, ok := c.(*net.UnixConn)
		if !ok {
			c.Close()
			return nil, fmt.Errorf("WAYLAND_SOCKET fd %v is not a Unix socket", fd)
		}
		return NewConn(uc), nil
	}

	path, err := SocketPath()
	if err != nil {
		return nil, err
	}
	s, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("dial %v: %w", path, err)
	}
	return NewConn(s), nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Send writes data to the connection. If fds is not empty, the
// descriptors are attached to the same write, so the server receives
// them together with the first byte of data. The caller keeps
// ownership of fds.
func (c *Conn) Send(data []byte, fds []int) error {
	if len(fds) > maxFDs {
		return fmt.Errorf("too many file descriptors: %v", len(fds))
	}

	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}

	n, _, err := c.conn.WriteMsgUnix(data, oob, nil)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if n < len(data) {
		_, err = c.conn.Write(data[n:])
		if err != nil {
			return fmt.Errorf("write message: %w", err)
		}
	}
	return nil
}

// Receive reads whatever is available on the connection into buf,
// blocking until at least one byte has arrived. A closed connection
// results in io.EOF.
//
// None of the events that this package's users handle carry file
// descriptors, so any that arrive are closed immediately.
func (c *Conn) Receive(buf []byte) (int, error) {
	n, oobn, _, _, err := c.conn.ReadMsgUnix(buf, c.oob)
	if err != nil {
		return n, err
	}
	if oobn > 0 {
		err = closeFDs(c.oob[:oobn])
		if err != nil {
			return n, err
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func closeFDs(oob []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return fmt.Errorf("parse socket control messages: %w", err)
	}
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("parse unix control message: %w", err)
		}
		for _, fd := range fds {
			unix.Close(fd)
		}
	}
	return nil
}
