// Package dirty tracks which widget nodes must be re-rendered in the next frame.
package dirty

import (
	"cmp"
	"slices"
	"sync"

	"github.com/kayak-ui/kayak/pkg/tree"
)

// Set is a goroutine-safe set of NodeIDs. State changes mark nodes; the
// render driver drains the set once per frame.
type Set struct {
	mu    sync.Mutex
	nodes map[tree.NodeID]struct{}
}

// New creates an empty Set.
func New() *Set {
	return &Set{nodes: make(map[tree.NodeID]struct{})}
}

// Mark adds ids to the set. Invalid IDs are ignored.
// It returns the number of ids that were not already marked.
func (s *Set) Mark(ids ...tree.NodeID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, id := range ids {
		if !id.IsValid() {
			continue
		}
		if _, ok := s.nodes[id]; !ok {
			s.nodes[id] = struct{}{}
			added++
		}
	}
	return added
}

// Contains reports whether id is marked.
func (s *Set) Contains(id tree.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nodes[id]
	return ok
}

// Remove unmarks id.
func (s *Set) Remove(id tree.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
}

// Len returns the number of marked nodes.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Drain returns every marked node and clears the set in one step. The
// result is sorted by index then generation so frames are deterministic.
func (s *Set) Drain() []tree.NodeID {
	s.mu.Lock()
	if len(s.nodes) == 0 {
		s.mu.Unlock()
		return nil
	}
	out := make([]tree.NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		out = append(out, id)
	}
	s.nodes = make(map[tree.NodeID]struct{})
	s.mu.Unlock()

	slices.SortFunc(out, compareIDs)
	return out
}

// Clear unmarks every node.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.nodes)
}

func compareIDs(a, b tree.NodeID) int {
	if c := cmp.Compare(a.Index, b.Index); c != 0 {
		return c
	}
	return cmp.Compare(a.Generation, b.Generation)
}
