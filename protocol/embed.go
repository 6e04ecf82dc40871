package protocol

import (
	"embed"
	"encoding/xml"
	"fmt"
)

//go:embed wayland.xml xdg-shell.xml
var files embed.FS

var interfaces = make(map[string]*Interface)

func init() {
	for _, name := range []string{"wayland.xml", "xdg-shell.xml"} {
		p, err := load(name)
		if err != nil {
			panic(err)
		}
		for i := range p.Interfaces {
			inter := &p.Interfaces[i]
			interfaces[inter.Name] = inter
		}
	}
}

func load(name string) (*Protocol, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", name, err)
	}

	var p Protocol
	err = xml.Unmarshal(data, &p)
	if err != nil {
		return nil, fmt.Errorf("unmarshal %v: %w", name, err)
	}
	return &p, nil
}

// Lookup returns the description of the named interface.
func Lookup(name string) (*Interface, bool) {
	inter, ok := interfaces[name]
	return inter, ok
}

// Version returns the highest version of the named interface that is
// supported, or 0 if the interface is unknown.
func Version(name string) uint32 {
	inter, ok := interfaces[name]
	if !ok {
		return 0
	}
	return uint32(inter.Version)
}

// Request returns the request with the given opcode.
func (i *Interface) Request(op uint16) (Op, bool) {
	if int(op) >= len(i.Requests) {
		return Op{}, false
	}
	return i.Requests[op], true
}

// Event returns the event with the given opcode.
func (i *Interface) Event(op uint16) (Op, bool) {
	if int(op) >= len(i.Events) {
		return Op{}, false
	}
	return i.Events[op], true
}

// RequestOp returns the opcode of the named request.
func (i *Interface) RequestOp(name string) (uint16, bool) {
	return opcode(i.Requests, name)
}

// EventOp returns the opcode of the named event.
func (i *Interface) EventOp(name string) (uint16, bool) {
	return opcode(i.Events, name)
}

func opcode(ops []Op, name string) (uint16, bool) {
	for i, op := range ops {
		if op.Name == name {
			return uint16(i), true
		}
	}
	return 0, false
}

// RequestName returns the name of a request, for logging. Unknown
// requests are named by their opcode.
func RequestName(inter string, op uint16) string {
	if i, ok := interfaces[inter]; ok {
		if r, ok := i.Request(op); ok {
			return r.Name
		}
	}
	return fmt.Sprintf("request[%v]", op)
}

// EventName returns the name of an event, for logging. Unknown events
// are named by their opcode.
func EventName(inter string, op uint16) string {
	if i, ok := interfaces[inter]; ok {
		if e, ok := i.Event(op); ok {
			return e.Name
		}
	}
	return fmt.Sprintf("event[%v]", op)
}
