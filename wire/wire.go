// Package wire implements the Wayland wire protocol: message framing,
// argument encoding, and the Unix socket transport that carries file
// descriptors alongside message bytes.
//
// Every message is an 8 byte header, the sender's object ID followed by
// a 16 bit opcode and a 16 bit total size, and then its arguments, each
// of which is a multiple of 4 bytes long. All values are in host byte
// order.
package wire

const (
	// HeaderSize is the size of a message header.
	HeaderSize = 8

	// MaxMessageSize is the largest message, header included, that
	// will be encoded or accepted. It matches the limit used by
	// libwayland; no message of the interfaces this package is used
	// with comes close to it.
	MaxMessageSize = 4096

	// DisplayID is the ID of the wl_display singleton, which exists
	// implicitly on every connection.
	DisplayID uint32 = 1
)

// Object represents a Wayland protocol object that can receive
// events.
type Object interface {
	// Interface returns the protocol interface name of the object,
	// such as "wl_surface".
	Interface() string

	// Dispatch handles the event in msg. It must consume all of the
	// message's arguments.
	Dispatch(msg *Message) error
}

// padding returns the number of bytes needed to pad n to a multiple
// of 4.
func padding(n uint32) uint32 {
	return (4 - n%4) % 4
}

// Pad rounds n up to the next multiple of 4.
func Pad(n int) int {
	return (n + 3) &^ 3
}
