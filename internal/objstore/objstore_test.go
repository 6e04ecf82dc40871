package objstore

import (
	"testing"

	"deedles.dev/wlframe/wire"
)

type object string

func (obj object) Interface() string            { return string(obj) }
func (obj object) Dispatch(*wire.Message) error { return nil }

func TestAllocate(t *testing.T) {
	s := New()

	prev := wire.DisplayID
	for i := range 10 {
		id := s.Allocate(object("wl_callback"))
		if id <= prev {
			t.Fatalf("allocation %v returned %v after %v", i, id, prev)
		}
		prev = id

		if i%2 == 0 {
			s.Delete(id)
		}
	}

	if s.Len() != 5 {
		t.Fatalf("%v live objects", s.Len())
	}
}

func TestFirstID(t *testing.T) {
	s := New()
	if id := s.Allocate(object("wl_registry")); id != FirstID {
		t.Fatalf("first ID is %v", id)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	s.Set(wire.DisplayID, object("wl_display"))
	id := s.Allocate(object("wl_callback"))

	s.Delete(id)
	if s.Get(id) != nil {
		t.Fatal("deleted object is still present")
	}
	if next := s.Allocate(object("wl_callback")); next == id {
		t.Fatalf("ID %v was reused", id)
	}
	if obj := s.Get(wire.DisplayID); obj == nil || obj.Interface() != "wl_display" {
		t.Fatalf("display is %v", obj)
	}
}
