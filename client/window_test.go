package wl

import (
	"testing"

	"deedles.dev/wlframe/shm"
)

func TestCreateWindow(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())

	dispatch(t, d, globals()...)
	if d.Window().State() != AwaitingGlobals {
		t.Fatalf("state %v before advance", d.Window().State())
	}
	advance(t, d)
	if d.Window().State() != GlobalsBound {
		t.Fatalf("state %v", d.Window().State())
	}

	msgs := sent(t, d, f)
	want := []struct {
		sender uint32
		op     uint16
	}{
		{idRegistry, registryBind},
		{idRegistry, registryBind},
		{idRegistry, registryBind},
		{idRegistry, registryBind},
		{idCompositor, compositorCreateSurface},
		{idWmBase, wmBaseGetXdgSurface},
		{idXdgSurface, xdgSurfaceGetToplevel},
		{idToplevel, toplevelSetTitle},
		{idToplevel, toplevelSetAppID},
		{idSurface, surfaceCommit},
	}
	if len(msgs) != len(want) {
		t.Fatalf("sent %v requests, expected %v", len(msgs), len(want))
	}
	for i, w := range want {
		expect(t, msgs[i], w.sender, w.op)
	}

	if title := msgs[7].ReadString(); title != "test" {
		t.Fatalf("title %q", title)
	}
	for role, id := range map[Role]uint32{RoleSurface: idSurface, RoleXdgSurface: idXdgSurface, RoleToplevel: idToplevel} {
		if got, ok := d.Registry().Role(role); !ok || got != id {
			t.Errorf("%v role is %v", role, got)
		}
	}
}

func TestWaitForGlobals(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())

	dispatch(t, d, globals()[:2]...)
	advance(t, d)
	if d.Window().State() != AwaitingGlobals {
		t.Fatalf("state %v", d.Window().State())
	}
	if msgs := sent(t, d, f); len(msgs) != 2 {
		t.Fatalf("sent %v requests", len(msgs))
	}
}

func TestConfigure(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	announce(t, d, f)

	dispatch(t, d,
		ev(idToplevel, toplevelEventConfigure, int32(800), int32(600), []byte{}),
		ev(idXdgSurface, xdgSurfaceEventConfigure, uint32(42)),
	)
	if d.Window().State() != ConfigureAcked {
		t.Fatalf("state %v", d.Window().State())
	}

	msgs := sent(t, d, f)
	if len(msgs) == 0 {
		t.Fatal("nothing sent")
	}
	expect(t, msgs[0], idXdgSurface, xdgSurfaceAckConfigure)
	if serial := msgs[0].ReadUint(); serial != 42 {
		t.Fatalf("acked %v", serial)
	}
}

func TestRender(t *testing.T) {
	cfg := testConfig()
	var frames []PointerState
	cfg.Paint = func(pix []byte, w, h int, ptr PointerState) {
		if w != 800 || h != 600 || len(pix) != w*h*shm.BytesPerPixel {
			t.Errorf("painting %vx%v frame into %v bytes", w, h, len(pix))
		}
		frames = append(frames, ptr)
	}
	d, f := newTestDisplay(t, cfg)
	announce(t, d, f)

	msgs := configure(t, d, f)
	if len(frames) != 1 {
		t.Fatalf("painted %v frames", len(frames))
	}
	if d.Window().State() != AwaitingFrameCallback {
		t.Fatalf("state %v", d.Window().State())
	}

	want := []struct {
		sender uint32
		op     uint16
	}{
		{idXdgSurface, xdgSurfaceAckConfigure},
		{idShm, shmCreatePool},
		{idShmPool, shmPoolCreateBuffer},
		{idSurface, surfaceAttach},
		{idSurface, surfaceDamageBuffer},
		{idSurface, surfaceFrame},
		{idSurface, surfaceCommit},
	}
	if len(msgs) != len(want) {
		t.Fatalf("sent %v requests, expected %v", len(msgs), len(want))
	}
	for i, w := range want {
		expect(t, msgs[i], w.sender, w.op)
	}
	if f.fds != 1 {
		t.Fatalf("sent %v file descriptors", f.fds)
	}

	create := msgs[2]
	id, offset, width, height, stride, format := create.ReadUint(), create.ReadInt(), create.ReadInt(), create.ReadInt(), create.ReadInt(), create.ReadUint()
	if id != idBuffer0 || offset != 0 || width != 800 || height != 600 || stride != 3200 || Format(format) != FormatXRGB8888 {
		t.Fatalf("create_buffer(%v, %v, %v, %v, %v, %v)", id, offset, width, height, stride, format)
	}
	if buf := msgs[3].ReadUint(); buf != idBuffer0 {
		t.Fatalf("attached %v", buf)
	}
	if cb := msgs[5].ReadUint(); cb != idFrame0 {
		t.Fatalf("frame callback %v", cb)
	}

	// Later configures are only acked.
	dispatch(t, d, ev(idXdgSurface, xdgSurfaceEventConfigure, uint32(43)))
	advance(t, d)
	msgs = sent(t, d, f)
	if len(msgs) != 1 || len(frames) != 1 {
		t.Fatalf("sent %v requests and painted %v frames after reconfigure", len(msgs), len(frames))
	}
	expect(t, msgs[0], idXdgSurface, xdgSurfaceAckConfigure)
}

func TestFrameCallback(t *testing.T) {
	var painted int
	cfg := testConfig()
	cfg.Paint = func([]byte, int, int, PointerState) { painted++ }
	d, f := newTestDisplay(t, cfg)
	announce(t, d, f)
	configure(t, d, f)

	dispatch(t, d, ev(idFrame0, callbackEventDone, uint32(100)))
	if painted != 2 {
		t.Fatalf("painted %v frames", painted)
	}

	msgs := sent(t, d, f)
	expect(t, msgs[0], idShmPool, shmPoolCreateBuffer)
	msgs[0].ReadUint()
	if off := msgs[0].ReadInt(); int(off) != d.window.pool.Capacity() {
		t.Fatalf("second buffer at offset %v", off)
	}
	expect(t, msgs[len(msgs)-1], idSurface, surfaceCommit)
	if n := d.window.pool.InFlightCount(); n != 2 {
		t.Fatalf("%v slots in flight", n)
	}
}

func TestStall(t *testing.T) {
	var painted int
	cfg := testConfig()
	cfg.Paint = func([]byte, int, int, PointerState) { painted++ }
	d, f := newTestDisplay(t, cfg)
	announce(t, d, f)
	configure(t, d, f)

	const (
		idBuffer1 = idFrame0 + 1
		idFrame1  = idFrame0 + 2
		idFrame2  = idFrame0 + 3
	)

	dispatch(t, d, ev(idFrame0, callbackEventDone, uint32(100)))
	sent(t, d, f)

	dispatch(t, d, ev(idFrame1, callbackEventDone, uint32(116)))
	if painted != 2 {
		t.Fatalf("painted %v frames while every buffer was in flight", painted)
	}
	if msgs := sent(t, d, f); len(msgs) != 0 {
		t.Fatalf("sent %v requests while stalled", len(msgs))
	}
	if !d.window.stalled {
		t.Fatal("window is not stalled")
	}

	// A release for a slot lets the deferred frame go out.
	dispatch(t, d, ev(idBuffer0, bufferEventRelease))
	if painted != 3 {
		t.Fatalf("painted %v frames after release", painted)
	}
	msgs := sent(t, d, f)
	expect(t, msgs[0], idSurface, surfaceAttach)
	if buf := msgs[0].ReadUint(); buf != idBuffer0 {
		t.Fatalf("attached %v", buf)
	}
	expect(t, msgs[2], idSurface, surfaceFrame)
	if cb := msgs[2].ReadUint(); cb != idFrame2 {
		t.Fatalf("frame callback %v", cb)
	}

	dispatch(t, d, ev(idBuffer1, bufferEventRelease))
	if painted != 3 || d.window.stalled {
		t.Fatalf("release without a pending frame painted (%v frames)", painted)
	}
}

func TestResize(t *testing.T) {
	var sizes [][2]int
	cfg := testConfig()
	cfg.Paint = func(pix []byte, w, h int, ptr PointerState) {
		if len(pix) != w*h*shm.BytesPerPixel {
			t.Errorf("%vx%v frame in %v bytes", w, h, len(pix))
		}
		sizes = append(sizes, [2]int{w, h})
	}
	d, f := newTestDisplay(t, cfg)
	announce(t, d, f)
	configure(t, d, f)
	oldSize := d.window.pool.Size()

	dispatch(t, d,
		ev(idToplevel, toplevelEventConfigure, int32(1920), int32(1080), []byte{}),
		ev(idXdgSurface, xdgSurfaceEventConfigure, uint32(44)),
	)
	if w, h := d.Window().Size(); w != 1920 || h != 1080 {
		t.Fatalf("size %vx%v", w, h)
	}
	if len(sizes) != 1 {
		t.Fatal("resize repainted")
	}

	msgs := sent(t, d, f)
	expect(t, msgs[0], idShmPool, shmPoolResize)
	if size := msgs[0].ReadInt(); int(size) != d.window.pool.Size() || int(size) <= oldSize {
		t.Fatalf("resized pool to %v", size)
	}
	expect(t, msgs[1], idXdgSurface, xdgSurfaceAckConfigure)

	dispatch(t, d, ev(idFrame0, callbackEventDone, uint32(100)))
	if sizes[1] != [2]int{1920, 1080} {
		t.Fatalf("next frame is %v", sizes[1])
	}

	msgs = sent(t, d, f)
	expect(t, msgs[0], idShmPool, shmPoolCreateBuffer)
	msgs[0].ReadUint()
	if off := msgs[0].ReadInt(); int(off) < oldSize {
		t.Fatalf("new buffer at %v overlaps the old pool of %v bytes", off, oldSize)
	}
}

func TestResizeIgnored(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	announce(t, d, f)
	configure(t, d, f)

	dispatch(t, d,
		ev(idToplevel, toplevelEventConfigure, int32(0), int32(300), []byte{}),
		ev(idToplevel, toplevelEventConfigure, int32(800), int32(600), []byte{}),
	)
	if w, h := d.Window().Size(); w != 800 || h != 600 {
		t.Fatalf("size %vx%v", w, h)
	}
	if msgs := sent(t, d, f); len(msgs) != 0 {
		t.Fatalf("sent %v requests", len(msgs))
	}
}

func TestDamageFallback(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	msgs := globals()
	msgs[1] = ev(idRegistry, registryEventGlobal, uint32(2), "wl_compositor", uint32(3))
	dispatch(t, d, msgs...)
	advance(t, d)
	sent(t, d, f)

	for _, msg := range configure(t, d, f) {
		if msg.Sender == idSurface && msg.Op == surfaceDamageBuffer {
			t.Fatal("used damage_buffer with wl_compositor version 3")
		}
		if msg.Sender == idSurface && msg.Op == surfaceDamage {
			return
		}
	}
	t.Fatal("no damage request")
}

func TestPing(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	announce(t, d, f)

	dispatch(t, d, ev(idWmBase, wmBaseEventPing, uint32(9)))
	msgs := sent(t, d, f)
	if len(msgs) != 1 {
		t.Fatalf("sent %v requests", len(msgs))
	}
	expect(t, msgs[0], idWmBase, wmBasePong)
	if serial := msgs[0].ReadUint(); serial != 9 {
		t.Fatalf("pong(%v)", serial)
	}
}

func TestClose(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	announce(t, d, f)

	_, err := d.Dispatch(ev(idToplevel, toplevelEventClose))
	if err != ErrClosed {
		t.Fatalf("error %v", err)
	}
	if d.Window().State() != Closed {
		t.Fatalf("state %v", d.Window().State())
	}
}

func TestSurfaceOutput(t *testing.T) {
	d, f := newTestDisplay(t, testConfig())
	announce(t, d, f)

	dispatch(t, d,
		ev(idSurface, surfaceEventEnter, uint32(20)),
		ev(idSurface, surfaceEventLeave, uint32(20)),
	)
}
