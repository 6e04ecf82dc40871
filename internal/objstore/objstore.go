// Package objstore tracks the objects that exist on a connection.
package objstore

import "deedles.dev/wlframe/wire"

// FirstID is the first ID handed out by a Store. ID 1 always belongs
// to the display.
const FirstID uint32 = 2

// Store maps object IDs to the objects that handle their events. IDs
// are allocated in strictly increasing order and are never reused,
// even after the object that held one has been deleted.
type Store struct {
	objects map[uint32]wire.Object
	nextID  uint32
}

func New() *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  FirstID,
	}
}

// Allocate registers obj under a new ID and returns the ID.
func (s *Store) Allocate(obj wire.Object) uint32 {
	id := s.nextID
	s.nextID++

	s.objects[id] = obj
	return id
}

// Set registers obj under a fixed ID, such as the display's.
func (s *Store) Set(id uint32, obj wire.Object) {
	s.objects[id] = obj
}

// Get returns the object with the given ID, or nil if there isn't one.
func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Delete removes id from the store. The ID is not made available
// again.
func (s *Store) Delete(id uint32) {
	delete(s.objects, id)
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	return len(s.objects)
}
