package wl

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Dispatch when the compositor asks for the
// window to be closed. Run treats it as a normal exit.
var ErrClosed = errors.New("window closed by compositor")

// ProtocolError is a fatal error reported by the compositor.
type ProtocolError struct {
	ObjectID  uint32
	Interface string
	Code      uint32
	Message   string
}

func (err *ProtocolError) Error() string {
	inter := err.Interface
	if inter == "" {
		inter = "unknown"
	}
	return fmt.Sprintf("protocol error on %v@%v: code %v: %v", inter, err.ObjectID, err.Code, err.Message)
}

// DuplicateGlobalError is returned when the compositor announces a
// second global for a role that is already bound.
type DuplicateGlobalError struct {
	Role   Role
	Global Global
}

func (err DuplicateGlobalError) Error() string {
	return fmt.Sprintf("duplicate %v global %v (%v version %v)", err.Role, err.Global.Name, err.Global.Interface, err.Global.Version)
}

// RemovedGlobalError is returned when the compositor removes a bound
// global that the window depends on.
type RemovedGlobalError struct {
	Role   Role
	Global Global
}

func (err RemovedGlobalError) Error() string {
	return fmt.Sprintf("%v global %v (%v) removed", err.Role, err.Global.Name, err.Global.Interface)
}
