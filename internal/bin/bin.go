// Package bin contains utilities for dealing with host-order binary
// representations.
package bin

import "encoding/binary"

// Order is the host byte order. The Wayland wire protocol always uses
// it, as both ends of the socket live on the same machine.
var Order = binary.NativeEndian

// Put writes v into the first four bytes of b.
func Put[T ~int32 | ~uint32](b []byte, v T) {
	Order.PutUint32(b, uint32(v))
}

// Get reads a value from the first four bytes of b.
func Get[T ~int32 | ~uint32](b []byte) T {
	return T(Order.Uint32(b))
}

func Put16(b []byte, v uint16) {
	Order.PutUint16(b, v)
}

func Get16(b []byte) uint16 {
	return Order.Uint16(b)
}
