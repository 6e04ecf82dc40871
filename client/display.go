package wl

import (
	"errors"
	"fmt"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/protocol"
	"deedles.dev/wlframe/wire"
)

const (
	displaySync        = 0
	displayGetRegistry = 1

	displayEventError    = 0
	displayEventDeleteID = 1
)

// Dispatch handles every complete message in buf in order and
// returns whatever is left over, which is the beginning of a message
// that has not fully arrived yet. The first error stops the batch;
// the messages after it are not handled.
func (d *Display) Dispatch(buf []byte) ([]byte, error) {
	for len(buf) > 0 {
		msg, rest, err := wire.ParseMessage(buf)
		if err != nil {
			if errors.Is(err, wire.ErrShortMessage) {
				return buf, nil
			}
			return buf, err
		}

		err = d.dispatch(msg)
		if err != nil {
			return rest, err
		}
		buf = rest
	}

	return buf, nil
}

func (d *Display) dispatch(msg *wire.Message) error {
	obj := d.objects.Get(msg.Sender)
	if obj == nil {
		return wire.UnknownSenderIDError{Msg: msg}
	}
	inter := obj.Interface()
	d.cfg.Metrics.EventReceived(inter)

	err := obj.Dispatch(msg)
	event := protocol.EventName(inter, msg.Op)
	debug.Printf("%v", msg.Debug(obj, event))
	if err := msg.Err(); err != nil {
		return fmt.Errorf("decode %v.%v: %w", inter, event, err)
	}
	if err != nil {
		return err
	}

	if n := msg.Remaining(); n != 0 {
		return wire.SizeMismatchError{
			Interface: inter,
			Event:     event,
			Size:      msg.Size,
			Remaining: n,
		}
	}
	return nil
}

type displayObject struct {
	display *Display
}

func (obj *displayObject) Interface() string {
	return "wl_display"
}

func (obj *displayObject) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case displayEventError:
		id := msg.ReadObject()
		code := msg.ReadUint()
		message := msg.ReadString()
		if msg.Err() != nil {
			return nil
		}

		err := ProtocolError{ObjectID: id, Code: code, Message: message}
		if target := obj.display.objects.Get(id); target != nil {
			err.Interface = target.Interface()
		}
		obj.display.window.state = Closed
		debug.Error().
			Str("interface", err.Interface).
			Uint32("object", id).
			Uint32("code", code).
			Msg(message)
		return &err

	case displayEventDeleteID:
		id := msg.ReadUint()
		obj.display.objects.Delete(id)
		return nil

	default:
		return wire.UnknownOpError{Interface: obj.Interface(), Type: "event", Op: msg.Op}
	}
}

func (obj *displayObject) getRegistry() *Registry {
	d := obj.display
	r := newRegistry(d)
	r.id = d.objects.Allocate(r)
	d.request(obj, wire.DisplayID, displayGetRegistry, r.id)
	return r
}

func (obj *displayObject) sync(done func(uint32) error) {
	d := obj.display
	cb := callback{done: done}
	id := d.objects.Allocate(&cb)
	d.request(obj, wire.DisplayID, displaySync, id)
}
