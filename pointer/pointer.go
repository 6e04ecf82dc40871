// Package pointer contains utilities for handling pointer input.
package pointer

// Button indicates a mouse button.
type Button uint32

// These values were pulled from linux/input-event-codes.h.
const (
	ButtonLeft Button = 0x110 + iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonExtra
	ButtonForward
	ButtonBack
	ButtonTask
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonSide:
		return "side"
	case ButtonExtra:
		return "extra"
	case ButtonForward:
		return "forward"
	case ButtonBack:
		return "back"
	case ButtonTask:
		return "task"
	}

	return "unknown"
}

// ButtonState is the state of a button in a wl_pointer.button event.
type ButtonState uint32

const (
	Released ButtonState = iota
	Pressed
)

func (s ButtonState) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	}

	return "unknown"
}

// Axis is a scroll axis.
type Axis uint32

const (
	AxisVerticalScroll Axis = iota
	AxisHorizontalScroll
)

func (a Axis) String() string {
	switch a {
	case AxisVerticalScroll:
		return "vertical"
	case AxisHorizontalScroll:
		return "horizontal"
	}

	return "unknown"
}

// Buttons is a set of pressed buttons. Bit i is set if ButtonLeft+i
// is pressed. Buttons outside of the range of this package's
// constants are not tracked.
type Buttons uint32

func (b Buttons) bit(button Button) Buttons {
	if button < ButtonLeft || button > ButtonTask {
		return 0
	}
	return 1 << (button - ButtonLeft)
}

// Set returns b with button's state updated.
func (b Buttons) Set(button Button, state ButtonState) Buttons {
	if state == Pressed {
		return b | b.bit(button)
	}
	return b &^ b.bit(button)
}

// Has reports whether button is pressed.
func (b Buttons) Has(button Button) bool {
	bit := b.bit(button)
	return bit != 0 && b&bit != 0
}

// Any reports whether any button is pressed.
func (b Buttons) Any() bool {
	return b != 0
}
