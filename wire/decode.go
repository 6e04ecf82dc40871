package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"deedles.dev/wlframe/internal/bin"
)

// Message is a single incoming message that has been framed but not
// yet decoded. Its Read methods consume arguments in order. The first
// failure is recorded and makes every later read return a zero value,
// so a handler can decode all of its arguments and then check Err
// once.
type Message struct {
	// Sender is the object ID of the sender of the message.
	Sender uint32

	// Op is the opcode of the message.
	Op uint16

	// Size is the total size of the message, including the 8 byte
	// header.
	Size uint16

	data []byte
	err  error
	args []any
}

// ParseMessage frames the first message in buf and returns it along
// with the rest of buf. If buf does not yet hold a complete message,
// ErrShortMessage is returned and the caller should try again once
// more data has arrived. A header that can never be valid results in
// a *HeaderError.
//
// The returned Message refers to buf's memory.
func ParseMessage(buf []byte) (*Message, []byte, error) {
	if len(buf) < HeaderSize {
		return nil, buf, ErrShortMessage
	}

	sender := bin.Get[uint32](buf)
	op := bin.Get16(buf[4:])
	size := bin.Get16(buf[6:])
	switch {
	case size < HeaderSize, size%4 != 0, size > MaxMessageSize:
		return nil, buf, &HeaderError{Sender: sender, Op: op, Size: size}
	case int(size) > len(buf):
		return nil, buf, ErrShortMessage
	}

	msg := Message{
		Sender: sender,
		Op:     op,
		Size:   size,
		data:   buf[HeaderSize:size:size],
	}
	return &msg, buf[size:], nil
}

// Err returns the first error that occurred while reading arguments.
func (m *Message) Err() error {
	return m.err
}

// Remaining returns the number of body bytes that have not been
// consumed.
func (m *Message) Remaining() int {
	return len(m.data)
}

// Args returns the arguments decoded so far, for logging.
func (m *Message) Args() []any {
	return m.args
}

func (m *Message) next(n int) ([]byte, bool) {
	if m.err != nil {
		return nil, false
	}
	if n > len(m.data) {
		m.err = io.ErrUnexpectedEOF
		return nil, false
	}

	b := m.data[:n]
	m.data = m.data[n:]
	return b, true
}

func (m *Message) ReadUint() uint32 {
	b, ok := m.next(4)
	if !ok {
		return 0
	}

	v := bin.Get[uint32](b)
	m.args = append(m.args, v)
	return v
}

func (m *Message) ReadInt() int32 {
	b, ok := m.next(4)
	if !ok {
		return 0
	}

	v := bin.Get[int32](b)
	m.args = append(m.args, v)
	return v
}

func (m *Message) ReadFixed() Fixed {
	b, ok := m.next(4)
	if !ok {
		return 0
	}

	v := bin.Get[Fixed](b)
	m.args = append(m.args, v)
	return v
}

// ReadObject reads an object ID. An ID of 0 is the null object.
func (m *Message) ReadObject() uint32 {
	return m.ReadUint()
}

// ReadString reads a string argument. A length of 0 is the null
// string, which is returned as "".
func (m *Message) ReadString() string {
	b, ok := m.next(4)
	if !ok {
		return ""
	}
	length := bin.Get[uint32](b)
	if length == 0 {
		m.args = append(m.args, "")
		return ""
	}
	if length > uint32(len(m.data)) {
		m.err = fmt.Errorf("string of length %v: %w", length, io.ErrUnexpectedEOF)
		return ""
	}

	b, ok = m.next(int(length + padding(length)))
	if !ok {
		return ""
	}
	if b[length-1] != 0 {
		m.err = errors.New("string is not null-terminated")
		return ""
	}
	if bytes.IndexByte(b[:length-1], 0) >= 0 {
		m.err = errors.New("string contains an embedded null")
		return ""
	}

	v := string(b[:length-1])
	m.args = append(m.args, v)
	return v
}

// ReadArray reads an array argument. The returned slice refers to the
// message's memory.
func (m *Message) ReadArray() []byte {
	b, ok := m.next(4)
	if !ok {
		return nil
	}
	length := bin.Get[uint32](b)
	if length > uint32(len(m.data)) {
		m.err = fmt.Errorf("array of length %v: %w", length, io.ErrUnexpectedEOF)
		return nil
	}

	b, ok = m.next(int(length + padding(length)))
	if !ok {
		return nil
	}

	v := b[:length:length]
	m.args = append(m.args, v)
	return v
}

// Debug formats the message as a call, such as
// wl_registry@2.global(1, "wl_shm", 1), for logging. method is the
// name of the event that the opcode corresponds to.
func (m *Message) Debug(sender Object, method string) string {
	return fmt.Sprintf("%v@%v.%v(%v)", sender.Interface(), m.Sender, method, FormatArgs(m.args))
}

// FormatArgs formats message arguments for logging.
func FormatArgs(args []any) string {
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			strs = append(strs, strconv.Quote(arg))
		case []byte:
			strs = append(strs, fmt.Sprintf("array[%v]", len(arg)))
		case *os.File:
			strs = append(strs, fmt.Sprintf("fd %v", arg.Fd()))
		default:
			strs = append(strs, fmt.Sprint(arg))
		}
	}
	return strings.Join(strs, ", ")
}
