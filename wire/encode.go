package wire

import (
	"fmt"
	"os"

	"deedles.dev/wlframe/internal/bin"
	"golang.org/x/sys/unix"
)

// Encoder encodes outgoing messages into a fixed-capacity buffer so
// that several of them can be sent with a single write. File
// descriptors attached to the messages are queued alongside the bytes
// and sent in the same call.
//
// Running out of space is a programming error, not an environmental
// one, and causes a panic. Callers are expected to check Free before
// beginning a message.
type Encoder struct {
	buf   []byte
	fds   []int
	start int
	open  bool
}

// NewEncoder returns an Encoder with room for size bytes. size must
// be at least MaxMessageSize.
func NewEncoder(size int) *Encoder {
	if size < MaxMessageSize {
		panic(fmt.Sprintf("wire: encoder size %v is smaller than the maximum message size", size))
	}
	return &Encoder{buf: make([]byte, 0, size)}
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Free returns the number of bytes that can still be encoded.
func (e *Encoder) Free() int {
	return cap(e.buf) - len(e.buf)
}

// Bytes returns the encoded messages. The slice is only valid until
// the next call to Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// FDs returns the file descriptors queued with the encoded messages.
func (e *Encoder) FDs() []int {
	return e.fds
}

// Reset discards the encoded messages and closes the queued file
// descriptors, which are duplicates owned by the Encoder.
func (e *Encoder) Reset() {
	if e.open {
		panic("wire: reset with an unfinished message")
	}

	for _, fd := range e.fds {
		unix.Close(fd)
	}
	e.fds = e.fds[:0]
	e.buf = e.buf[:0]
}

// Begin starts a new message from sender with the given opcode.
func (e *Encoder) Begin(sender uint32, op uint16) {
	if e.open {
		panic("wire: message begun before the previous one was finished")
	}

	e.start = len(e.buf)
	e.open = true
	b := e.reserve(HeaderSize)
	bin.Put(b, sender)
	bin.Put16(b[4:], op)
}

// End finishes the current message, filling in its size.
func (e *Encoder) End() {
	if !e.open {
		panic("wire: end called without a message")
	}

	size := len(e.buf) - e.start
	if size%4 != 0 {
		panic(fmt.Sprintf("wire: message size %v is not aligned", size))
	}
	bin.Put16(e.buf[e.start+6:], uint16(size))
	e.open = false
}

func (e *Encoder) reserve(n int) []byte {
	if !e.open {
		panic("wire: write outside of a message")
	}

	end := len(e.buf) + n
	if end > cap(e.buf) {
		panic(fmt.Sprintf("wire: encoder overflow: %v bytes needed, %v free", n, e.Free()))
	}
	if end-e.start > MaxMessageSize {
		panic(fmt.Sprintf("wire: message from %v exceeds %v bytes", bin.Get[uint32](e.buf[e.start:]), MaxMessageSize))
	}

	e.buf = e.buf[:end]
	return e.buf[end-n : end]
}

func (e *Encoder) WriteUint(v uint32) {
	bin.Put(e.reserve(4), v)
}

func (e *Encoder) WriteInt(v int32) {
	bin.Put(e.reserve(4), v)
}

// WriteUint16 writes a 16 bit value. It is only meaningful in pairs,
// as every argument must stay 4 byte aligned.
func (e *Encoder) WriteUint16(v uint16) {
	bin.Put16(e.reserve(2), v)
}

func (e *Encoder) WriteFixed(v Fixed) {
	bin.Put(e.reserve(4), v)
}

// WriteObject writes an object ID. An ID of 0 is the null object.
func (e *Encoder) WriteObject(id uint32) {
	e.WriteUint(id)
}

// WriteString writes v as a length-prefixed, null-terminated string
// padded to a multiple of 4 bytes. The length includes the
// terminator.
func (e *Encoder) WriteString(v string) {
	length := uint32(len(v) + 1)
	e.WriteUint(length)

	b := e.reserve(int(length + padding(length)))
	n := copy(b, v)
	clear(b[n:])
}

// WriteArray writes v as a length-prefixed byte array padded to a
// multiple of 4 bytes.
func (e *Encoder) WriteArray(v []byte) {
	length := uint32(len(v))
	e.WriteUint(length)

	b := e.reserve(int(length + padding(length)))
	n := copy(b, v)
	clear(b[n:])
}

// WriteFile attaches a duplicate of the file's descriptor to the
// message. Descriptors are not part of the message body; they travel
// as ancillary data of the write that sends the encoded bytes.
func (e *Encoder) WriteFile(f *os.File) error {
	if !e.open {
		panic("wire: write outside of a message")
	}

	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("duplicate file descriptor: %w", err)
	}
	e.fds = append(e.fds, fd)
	return nil
}
