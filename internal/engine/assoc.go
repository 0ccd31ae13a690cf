package engine

import "rendering-engine/internal/scene"

// idSet is an insertion-ordered set of ids with O(1) add, remove and
// membership. Removal moves the last element into the hole.
type idSet struct {
	items []scene.ID
	index map[scene.ID]int
}

func (s *idSet) add(id scene.ID) bool {
	if s.index == nil {
		s.index = make(map[scene.ID]int)
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, id)
	return true
}

func (s *idSet) remove(id scene.ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, id)
	return true
}

func (s *idSet) contains(id scene.ID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) len() int { return len(s.items) }

// adjacency maps a camera id to the ids associated with it
type adjacency map[scene.ID]*idSet

func (a adjacency) add(camera, id scene.ID) bool {
	s, ok := a[camera]
	if !ok {
		s = &idSet{}
		a[camera] = s
	}
	return s.add(id)
}

func (a adjacency) remove(camera, id scene.ID) bool {
	s, ok := a[camera]
	if !ok || !s.remove(id) {
		return false
	}
	if s.len() == 0 {
		delete(a, camera)
	}
	return true
}

func (a adjacency) contains(camera, id scene.ID) bool {
	s, ok := a[camera]
	return ok && s.contains(id)
}

// of returns the ids associated with camera. The slice must not be modified.
func (a adjacency) of(camera scene.ID) []scene.ID {
	if s, ok := a[camera]; ok {
		return s.items
	}
	return nil
}
