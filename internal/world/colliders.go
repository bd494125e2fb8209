package world

import "github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"

// ColliderHandle addresses one oriented-box collider. A handle stays valid
// until its collider is removed; afterwards it resolves to nothing even if
// the slot is reused.
type ColliderHandle struct {
	Index uint32 `json:"index" msgpack:"index"`
	Gen   uint32 `json:"gen" msgpack:"gen"`
}

// IsZero reports whether the handle was never issued.
func (h ColliderHandle) IsZero() bool {
	return h.Gen == 0
}

type colliderSlot struct {
	box  geometry.OrientedBox
	gen  uint32
	live bool
}

type colliderStore struct {
	slots []colliderSlot
	free  []uint32
	live  int
}

func (s *colliderStore) add(box geometry.OrientedBox) ColliderHandle {
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]
		slot := &s.slots[index]
		slot.box = box
		slot.live = true
		s.live++
		return ColliderHandle{Index: index, Gen: slot.gen}
	}
	s.slots = append(s.slots, colliderSlot{box: box, gen: 1, live: true})
	s.live++
	return ColliderHandle{Index: uint32(len(s.slots) - 1), Gen: 1}
}

func (s *colliderStore) resolve(h ColliderHandle) (*colliderSlot, bool) {
	if h.IsZero() || int(h.Index) >= len(s.slots) {
		return nil, false
	}
	slot := &s.slots[h.Index]
	if !slot.live || slot.gen != h.Gen {
		return nil, false
	}
	return slot, true
}

func (s *colliderStore) remove(h ColliderHandle) bool {
	slot, ok := s.resolve(h)
	if !ok {
		return false
	}
	slot.live = false
	slot.box = geometry.OrientedBox{}
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	s.free = append(s.free, h.Index)
	s.live--
	return true
}

func (s *colliderStore) each(fn func(ColliderHandle, geometry.OrientedBox) bool) {
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.live {
			continue
		}
		if !fn(ColliderHandle{Index: uint32(i), Gen: slot.gen}, slot.box) {
			return
		}
	}
}

// AddCollider registers an oriented box and returns its handle.
func (w *World) AddCollider(box geometry.OrientedBox) ColliderHandle {
	if w == nil {
		return ColliderHandle{}
	}
	return w.colliders.add(box)
}

// RemoveCollider deletes the collider behind h. Removing a stale or unknown
// handle is a no-op that reports false.
func (w *World) RemoveCollider(h ColliderHandle) bool {
	if w == nil {
		return false
	}
	return w.colliders.remove(h)
}

// Collider resolves a handle to its box.
func (w *World) Collider(h ColliderHandle) (geometry.OrientedBox, bool) {
	if w == nil {
		return geometry.OrientedBox{}, false
	}
	slot, ok := w.colliders.resolve(h)
	if !ok {
		return geometry.OrientedBox{}, false
	}
	return slot.box, true
}

// Colliders returns the live boxes in slot order. Removing a collider keeps
// the relative order of the survivors.
func (w *World) Colliders() []geometry.OrientedBox {
	if w == nil || w.colliders.live == 0 {
		return nil
	}
	out := make([]geometry.OrientedBox, 0, w.colliders.live)
	w.colliders.each(func(_ ColliderHandle, box geometry.OrientedBox) bool {
		out = append(out, box)
		return true
	})
	return out
}

// ColliderCount reports the number of live colliders.
func (w *World) ColliderCount() int {
	if w == nil {
		return 0
	}
	return w.colliders.live
}
