package ecs

import "slices"

// EntityView is the read side of an EntitySet. Views returned by the World
// and by queries are live: they change as the owner changes.
type EntityView interface {
	Has(id EntityID) bool
	Len() int
	Each(fn func(EntityID))
	Slice() []EntityID
}

// EntitySet is an ascending set of entity IDs with map-backed membership.
//
// Writes made while Each is running copy the ID slice first, so a running
// iteration always walks the slice it started with. Entities removed during
// the iteration are skipped; entities added during it are not visited.
type EntitySet struct {
	index     map[EntityID]struct{}
	ids       []EntityID
	iterating int
	shared    bool
}

func NewEntitySet() *EntitySet {
	return &EntitySet{
		index: make(map[EntityID]struct{}, 64),
		ids:   make([]EntityID, 0, 64),
	}
}

// Add inserts id and reports whether it was absent.
func (s *EntitySet) Add(id EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.unshare()
	s.index[id] = struct{}{}
	// IDs are monotonic, so the common case is an append.
	if n := len(s.ids); n == 0 || s.ids[n-1] < id {
		s.ids = append(s.ids, id)
		return true
	}
	i, _ := slices.BinarySearch(s.ids, id)
	s.ids = slices.Insert(s.ids, i, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *EntitySet) Remove(id EntityID) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.unshare()
	delete(s.index, id)
	if i, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	return true
}

func (s *EntitySet) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *EntitySet) Len() int {
	return len(s.index)
}

// Each calls fn for every member in ascending order.
func (s *EntitySet) Each(fn func(EntityID)) {
	ids := s.ids
	s.shared = true
	s.iterating++
	defer func() {
		s.iterating--
		if s.iterating == 0 {
			s.shared = false
		}
	}()
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			fn(id)
		}
	}
}

// Slice returns a copy of the members in ascending order.
func (s *EntitySet) Slice() []EntityID {
	return slices.Clone(s.ids)
}

func (s *EntitySet) unshare() {
	if s.shared {
		s.ids = slices.Clone(s.ids)
		s.shared = false
	}
}
