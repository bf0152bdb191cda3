package physics

// The body registry is a dense arena with generation-checked handles behind
// the public string-id surface. Dangling string ids resolve to "not found"
// instead of aliasing a slot that was recycled for a newer body.

type handle struct {
	index      uint32
	generation uint32
}

type slot struct {
	generation uint32
	body       *body // nil when the slot is free
}

type arena struct {
	slots []slot
	free  []uint32
	byID  map[string]handle
}

func newArena() *arena {
	return &arena{byID: make(map[string]handle)}
}

func (a *arena) add(b *body) handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].body = b
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{body: b})
	}
	h := handle{index: idx, generation: a.slots[idx].generation}
	a.byID[b.id] = h
	return h
}

func (a *arena) get(id string) *body {
	h, ok := a.byID[id]
	if !ok {
		return nil
	}
	s := &a.slots[h.index]
	if s.generation != h.generation || s.body == nil {
		return nil
	}
	return s.body
}

func (a *arena) remove(id string) bool {
	h, ok := a.byID[id]
	if !ok {
		return false
	}
	s := &a.slots[h.index]
	if s.generation != h.generation || s.body == nil {
		delete(a.byID, id)
		return false
	}
	s.body = nil
	s.generation++ // invalidates any handle still pointing here
	a.free = append(a.free, h.index)
	delete(a.byID, id)
	return true
}

// each visits live bodies in slot order, which is stable across steps as long
// as the body set does not change. Deterministic iteration keeps the
// integrate/constraint/collision ordering reproducible.
func (a *arena) each(fn func(*body)) {
	for i := range a.slots {
		if b := a.slots[i].body; b != nil {
			fn(b)
		}
	}
}

func (a *arena) len() int {
	return len(a.byID)
}
