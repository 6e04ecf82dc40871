package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrShortMessage is returned by ParseMessage if its input does not
	// hold a complete message.
	ErrShortMessage = errors.New("incomplete message")

	// ErrNoRuntimeDir is returned when the socket path is relative and
	// $XDG_RUNTIME_DIR is not set.
	ErrNoRuntimeDir = errors.New("XDG_RUNTIME_DIR is not set")
)

// HeaderError is returned by ParseMessage for a message header whose
// size field can never be valid.
type HeaderError struct {
	Sender uint32
	Op     uint16
	Size   uint16
}

func (err *HeaderError) Error() string {
	return fmt.Sprintf("invalid message header from %v, opcode %v: size %v", err.Sender, err.Op, err.Size)
}

// UnknownOpError is returned by Object.Dispatch if it is given a
// message with an invalid opcode.
type UnknownOpError struct {
	Interface string
	Type      string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("unknown %v opcode for %v: %v", err.Type, err.Interface, err.Op)
}

// UnknownSenderIDError is returned by an attempt to dispatch an
// incoming message that indicates an event from an object that the
// client doesn't know about.
type UnknownSenderIDError struct {
	Msg *Message
}

func (err UnknownSenderIDError) Error() string {
	return fmt.Sprintf("unknown sender object ID: %v (opcode %v)", err.Msg.Sender, err.Msg.Op)
}

// SizeMismatchError is returned when a handler leaves part of a
// message's arguments unread, which means that the message's declared
// size doesn't match its signature.
type SizeMismatchError struct {
	Interface string
	Event     string
	Size      uint16
	Remaining int
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("%v.%v: message size %v leaves %v bytes unread", err.Interface, err.Event, err.Size, err.Remaining)
}
