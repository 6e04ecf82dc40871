package wl

import "deedles.dev/wlframe/wire"

const callbackEventDone = 0

// callback is a one-shot wl_callback. The compositor deletes it after
// done.
type callback struct {
	done func(data uint32) error
}

func (cb *callback) Interface() string {
	return "wl_callback"
}

func (cb *callback) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case callbackEventDone:
		data := msg.ReadUint()
		if msg.Err() != nil || cb.done == nil {
			return nil
		}
		done := cb.done
		cb.done = nil
		return done(data)

	default:
		return wire.UnknownOpError{Interface: cb.Interface(), Type: "event", Op: msg.Op}
	}
}
