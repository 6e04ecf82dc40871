package wl

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/internal/metrics"
	"deedles.dev/wlframe/internal/objstore"
	"deedles.dev/wlframe/protocol"
	"deedles.dev/wlframe/wire"
)

const (
	// outSize is the capacity of the outgoing message buffer. It is
	// flushed early if a message might not fit.
	outSize = 16 * wire.MaxMessageSize

	// inSize is the capacity of the incoming message buffer, which
	// also holds a partial message left over from the previous read.
	inSize = 16 * wire.MaxMessageSize

	// DefaultPoolSize is the minimum size of the shared memory pool.
	DefaultPoolSize = 32 << 20
)

// Transport moves bytes and file descriptors to and from the
// compositor. *wire.Conn implements it.
type Transport interface {
	Send(data []byte, fds []int) error
	Receive(buf []byte) (int, error)
	Close() error
}

// Config configures a Display.
type Config struct {
	// Width and Height are the initial size of the window. The
	// compositor may change them.
	Width, Height int

	Title string
	AppID string

	// Format is the pixel format of the window's buffers.
	Format Format

	// PoolSize is the minimum size of the shared memory pool. It
	// defaults to DefaultPoolSize.
	PoolSize int

	// Paint is called to fill in every frame immediately before it is
	// committed. pix holds width*height pixels in Format and must not
	// be retained.
	Paint func(pix []byte, width, height int, ptr PointerState)

	// Pointer is called when a button is pressed inside of the window
	// and while the pointer is dragged with a button held. x and y are
	// normalized to [0, 1].
	Pointer func(x, y float32)

	// Metrics, if not nil, is updated as the connection runs.
	Metrics *metrics.Metrics

	// ListOnly disables binding globals and creating a window. The
	// Display only tracks the globals that the compositor announces.
	ListOnly bool
}

// Display is a client connection to a compositor. It owns the
// object table, the registry, and the window, and it is not safe for
// concurrent use, except for Close.
type Display struct {
	cfg       Config
	transport Transport

	objects *objstore.Store
	out     *wire.Encoder
	in      []byte
	pending int
	sendErr error
	closing atomic.Bool

	obj        displayObject
	registry   *Registry
	shm        *Shm
	compositor *Compositor
	wmBase     *WmBase
	seat       *Seat
	window     *Window
}

// Connect dials the compositor found through the environment and
// creates a Display on the connection.
func Connect(cfg Config) (*Display, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}

	d, err := NewDisplay(c, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	return d, nil
}

// NewDisplay creates a Display that talks over t and requests the
// registry. Nothing is sent until the Display is flushed.
func NewDisplay(t Transport, cfg Config) (*Display, error) {
	if !cfg.ListOnly && (cfg.Width <= 0 || cfg.Height <= 0) {
		return nil, fmt.Errorf("invalid window size %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}

	d := Display{
		cfg:       cfg,
		transport: t,
		objects:   objstore.New(),
		out:       wire.NewEncoder(outSize),
		in:        make([]byte, inSize),
	}
	d.obj = displayObject{display: &d}
	d.objects.Set(wire.DisplayID, &d.obj)
	d.window = newWindow(&d)
	d.registry = d.obj.getRegistry()

	return &d, nil
}

// Registry returns the connection's registry.
func (d *Display) Registry() *Registry {
	return d.registry
}

// Window returns the connection's window.
func (d *Display) Window() *Window {
	return d.window
}

// Pointer returns the current pointer state.
func (d *Display) Pointer() PointerState {
	if d.seat == nil || d.seat.pointer == nil {
		return PointerState{}
	}
	return d.seat.pointer.state
}

// request encodes a request from sender. The arguments are encoded
// in order according to their types.
func (d *Display) request(sender wire.Object, id uint32, op uint16, args ...any) {
	if d.out.Free() < wire.MaxMessageSize {
		err := d.Flush()
		if err != nil && d.sendErr == nil {
			d.sendErr = err
		}
	}

	inter := sender.Interface()
	debug.Printf(" -> %v@%v.%v(%v)", inter, id, protocol.RequestName(inter, op), wire.FormatArgs(args))
	d.cfg.Metrics.RequestSent(inter)

	d.out.Begin(id, op)
	for _, arg := range args {
		switch arg := arg.(type) {
		case uint32:
			d.out.WriteUint(arg)
		case int32:
			d.out.WriteInt(arg)
		case wire.Fixed:
			d.out.WriteFixed(arg)
		case string:
			d.out.WriteString(arg)
		case []byte:
			d.out.WriteArray(arg)
		case *os.File:
			err := d.out.WriteFile(arg)
			if err != nil && d.sendErr == nil {
				d.sendErr = err
			}
		default:
			panic(fmt.Sprintf("unsupported request argument type %T", arg))
		}
	}
	d.out.End()
}

// Flush sends all queued requests.
func (d *Display) Flush() error {
	if d.out.Len() == 0 {
		return nil
	}
	defer d.out.Reset()

	err := d.transport.Send(d.out.Bytes(), d.out.FDs())
	if err != nil {
		return fmt.Errorf("send requests: %w", err)
	}
	return nil
}

// receive reads from the transport and dispatches every complete
// message, keeping a trailing partial message for the next call.
func (d *Display) receive() error {
	n, err := d.transport.Receive(d.in[d.pending:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("compositor disconnected: %w", err)
		}
		return fmt.Errorf("receive events: %w", err)
	}

	rest, err := d.Dispatch(d.in[:d.pending+n])
	d.pending = copy(d.in, rest)
	return err
}

// step runs one iteration of the event loop.
func (d *Display) step() error {
	err := d.Flush()
	if err != nil {
		return err
	}

	err = d.receive()
	if err != nil {
		return err
	}

	err = d.advance()
	if err != nil {
		return err
	}
	if d.sendErr != nil {
		return d.sendErr
	}
	return nil
}

// Run runs the event loop until the window is closed by the
// compositor, Close is called, or an error occurs. A close is not an
// error.
func (d *Display) Run() error {
	err := d.advance()
	for err == nil {
		err = d.step()
	}

	switch {
	case errors.Is(err, ErrClosed):
		return nil
	case d.closing.Load() && (errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF)):
		return nil
	}
	d.window.state = Closed
	return err
}

// Roundtrip sends all queued requests and handles events until the
// compositor has processed them.
func (d *Display) Roundtrip() error {
	var done bool
	d.obj.sync(func(uint32) error {
		done = true
		return nil
	})

	for !done {
		err := d.step()
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the connection. It may be called from another
// goroutine to stop Run.
func (d *Display) Close() error {
	d.closing.Store(true)
	return d.transport.Close()
}

// advance performs the work that becomes possible after a batch of
// events has been handled.
func (d *Display) advance() error {
	if d.cfg.ListOnly {
		return nil
	}
	return d.window.advance()
}
