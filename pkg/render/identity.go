package render

import (
	"strconv"

	"github.com/kayak-ui/kayak/pkg/tree"
)

// slot identifies a child by its parent and either its key or, for
// unkeyed children, its position. pos is -1 for keyed children, so a key
// that looks like a position never collides with one.
type slot struct {
	parent tree.NodeID
	key    string
	pos    int
}

func keyedSlot(parent tree.NodeID, key string) slot {
	return slot{parent: parent, key: key, pos: -1}
}

func positionalSlot(parent tree.NodeID, index int) slot {
	return slot{parent: parent, pos: index}
}

// name is the key reported for the slot: the declared key, or "#<index>"
// for positional children.
func (s slot) name() string {
	if s.pos < 0 {
		return s.key
	}
	return "#" + strconv.Itoa(s.pos)
}

// identity maps declared children to stable NodeIDs.
type identity struct {
	byKey map[slot]tree.NodeID
	keyOf map[tree.NodeID]slot
}

func newIdentity() identity {
	return identity{
		byKey: make(map[slot]tree.NodeID),
		keyOf: make(map[tree.NodeID]slot),
	}
}

// identify returns the NodeID for s, allocating one from the arena the
// first time the slot is seen. Newly allocated IDs are recorded in the pass
// so a failed render can release them.
func (d *Driver) identify(s slot, p *renderPass) tree.NodeID {
	if id, ok := d.ids.byKey[s]; ok && d.arena.Live(id) {
		return id
	}
	id := d.arena.Alloc()
	d.ids.byKey[s] = id
	d.ids.keyOf[id] = s
	p.fresh = append(p.fresh, id)
	return id
}

// release forgets everything the driver holds for ids and frees them.
func (d *Driver) release(ids []tree.NodeID) {
	for _, id := range ids {
		if s, ok := d.ids.keyOf[id]; ok {
			if d.ids.byKey[s] == id {
				delete(d.ids.byKey, s)
			}
			delete(d.ids.keyOf, id)
		}
		delete(d.widgets, id)
		delete(d.layoutPending, id)
		d.dirty.Remove(id)
		d.arena.Free(id)
	}
}

// Key returns the key node was declared with, or "" for roots and unknown
// nodes. Positional children report their "#<index>" key.
func (d *Driver) Key(node tree.NodeID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.keyOf(node)
}

// keyOf is Key without locking; callers hold d.mu.
func (d *Driver) keyOf(node tree.NodeID) string {
	s, ok := d.ids.keyOf[node]
	if !ok {
		return ""
	}
	return s.name()
}
