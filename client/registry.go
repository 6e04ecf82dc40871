package wl

import (
	"fmt"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/protocol"
	"deedles.dev/wlframe/wire"
	"golang.org/x/exp/maps"
)

const (
	registryBind = 0

	registryEventGlobal       = 0
	registryEventGlobalRemove = 1
)

// Role identifies an object that the client keeps exactly one of.
type Role int

const (
	RoleShm Role = iota
	RoleCompositor
	RoleWmBase
	RoleSeat
	RoleSurface
	RoleXdgSurface
	RoleToplevel
	RolePointer
)

func (r Role) String() string {
	switch r {
	case RoleShm:
		return "shm"
	case RoleCompositor:
		return "compositor"
	case RoleWmBase:
		return "wm_base"
	case RoleSeat:
		return "seat"
	case RoleSurface:
		return "surface"
	case RoleXdgSurface:
		return "xdg_surface"
	case RoleToplevel:
		return "toplevel"
	case RolePointer:
		return "pointer"
	}

	return "unknown"
}

// globalRoles maps the interfaces that are bound from the registry to
// their roles.
var globalRoles = map[string]Role{
	"wl_shm":        RoleShm,
	"wl_compositor": RoleCompositor,
	"xdg_wm_base":   RoleWmBase,
	"wl_seat":       RoleSeat,
}

// Global is a global object announced by the compositor.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Registry tracks the compositor's globals and the IDs of the
// objects that fill each Role.
type Registry struct {
	display *Display
	id      uint32

	globals map[uint32]Global
	roles   map[Role]uint32
	bound   map[uint32]Role
}

func newRegistry(display *Display) *Registry {
	return &Registry{
		display: display,
		globals: make(map[uint32]Global),
		roles:   make(map[Role]uint32),
		bound:   make(map[uint32]Role),
	}
}

func (r *Registry) Interface() string {
	return "wl_registry"
}

// Globals returns the currently announced globals, keyed by name.
func (r *Registry) Globals() map[uint32]Global {
	return maps.Clone(r.globals)
}

// Role returns the ID of the object that fills role.
func (r *Registry) Role(role Role) (uint32, bool) {
	id, ok := r.roles[role]
	return id, ok
}

// boundObject is an object that is created by binding a global.
type boundObject interface {
	wire.Object
	bound(id uint32)
}

func (r *Registry) assign(role Role, id uint32) {
	if prev, ok := r.roles[role]; ok {
		panic(fmt.Sprintf("wl: %v role already assigned to %v", role, prev))
	}
	r.roles[role] = id
}

func (r *Registry) clear(role Role) {
	delete(r.roles, role)
}

// Bind binds the named global to obj and returns the object's new
// ID. It does not wait for the compositor to respond.
func (r *Registry) Bind(name uint32, inter string, version uint32, obj wire.Object) uint32 {
	d := r.display
	id := d.objects.Allocate(obj)
	d.request(r, r.id, registryBind, name, inter, version, id)
	return id
}

func (r *Registry) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case registryEventGlobal:
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if msg.Err() != nil {
			return nil
		}
		return r.global(Global{Name: name, Interface: inter, Version: version})

	case registryEventGlobalRemove:
		name := msg.ReadUint()
		if msg.Err() != nil {
			return nil
		}
		return r.globalRemove(name)

	default:
		return wire.UnknownOpError{Interface: r.Interface(), Type: "event", Op: msg.Op}
	}
}

func (r *Registry) global(g Global) error {
	r.globals[g.Name] = g
	if r.display.cfg.ListOnly {
		return nil
	}

	role, ok := globalRoles[g.Interface]
	if !ok {
		return nil
	}
	if _, ok := r.roles[role]; ok {
		return DuplicateGlobalError{Role: role, Global: g}
	}

	version := min(g.Version, protocol.Version(g.Interface))
	if version < 1 {
		debug.Warn().Str("interface", g.Interface).Uint32("version", g.Version).Msg("ignoring global with unusable version")
		return nil
	}

	var obj boundObject
	d := r.display
	switch role {
	case RoleShm:
		d.shm = &Shm{display: d, version: version}
		obj = d.shm
	case RoleCompositor:
		d.compositor = &Compositor{display: d, version: version}
		obj = d.compositor
	case RoleWmBase:
		d.wmBase = &WmBase{display: d}
		obj = d.wmBase
	case RoleSeat:
		d.seat = &Seat{display: d, version: version}
		obj = d.seat
	}

	id := r.Bind(g.Name, g.Interface, version, obj)
	obj.bound(id)
	r.assign(role, id)
	r.bound[g.Name] = role

	debug.Info().
		Str("interface", g.Interface).
		Uint32("name", g.Name).
		Uint32("version", version).
		Uint32("id", id).
		Msg("bound global")
	return nil
}

// globalRemove forgets a global. A removed seat is released so that
// a replacement can be bound. The window can't survive without the
// other bound globals, so losing one of them is an error.
func (r *Registry) globalRemove(name uint32) error {
	g := r.globals[name]
	delete(r.globals, name)

	role, ok := r.bound[name]
	if !ok {
		return nil
	}
	delete(r.bound, name)

	if role != RoleSeat {
		return RemovedGlobalError{Role: role, Global: g}
	}

	d := r.display
	d.seat.remove()
	d.seat = nil
	r.clear(RoleSeat)
	debug.Info().Uint32("name", name).Msg("seat removed")
	return nil
}
