package tree

import (
	"fmt"
	"sync"
)

// NodeID identifies a node in a Tree. It is an arena slot plus a generation
// so that a reused slot never compares equal to an identifier handed out
// before the slot was freed.
type NodeID struct {
	Index      uint32
	Generation uint32
}

// InvalidID is the zero NodeID. No Arena ever returns it.
var InvalidID NodeID

// None is passed as the parent to Add to create a root.
var None = InvalidID

// IsValid reports whether id could have come from an Arena.
func (id NodeID) IsValid() bool {
	return id.Generation != 0
}

// String returns the string representation of the NodeID (e.g., "n3v1").
func (id NodeID) String() string {
	if !id.IsValid() {
		return "none"
	}
	return fmt.Sprintf("n%dv%d", id.Index, id.Generation)
}

// Arena hands out NodeIDs that are unique while live.
type Arena struct {
	mu          sync.Mutex
	generations []uint32
	live        []bool
	free        []uint32
	count       int
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc returns a fresh NodeID, reusing a freed slot when one is available.
func (a *Arena) Alloc() NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.count++
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		a.generations[index]++
		if a.generations[index] == 0 {
			a.generations[index] = 1
		}
		a.live[index] = true
		return NodeID{Index: index, Generation: a.generations[index]}
	}

	index := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	a.live = append(a.live, true)
	return NodeID{Index: index, Generation: 1}
}

// Free releases id. It returns false if id is not live.
func (a *Arena) Free(id NodeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isLive(id) {
		return false
	}
	a.live[id.Index] = false
	a.free = append(a.free, id.Index)
	a.count--
	return true
}

// Live reports whether id was allocated and not yet freed.
func (a *Arena) Live(id NodeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isLive(id)
}

// Len returns the number of live identifiers.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func (a *Arena) isLive(id NodeID) bool {
	if !id.IsValid() || int(id.Index) >= len(a.generations) {
		return false
	}
	return a.live[id.Index] && a.generations[id.Index] == id.Generation
}
