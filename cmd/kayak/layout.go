package main

import (
	"sync"

	"github.com/kayak-ui/kayak/pkg/tree"
)

// stackLayout stacks every node on its own row below its parent, so a
// node's height is the size of its subtree. Heights of untouched subtrees
// are cached between frames.
type stackLayout struct {
	mu      sync.Mutex
	heights map[tree.NodeID]int
	passes  int
}

func newStackLayout() *stackLayout {
	return &stackLayout{heights: make(map[tree.NodeID]int)}
}

// Layout implements render.LayoutSolver.
func (l *stackLayout) Layout(h tree.Hierarchy, pending []tree.NodeID) []tree.NodeID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.passes++

	// A node's height depends on its descendants, so every ancestor of a
	// pending node is stale too.
	stale := make(map[tree.NodeID]bool, len(pending))
	var tops []tree.NodeID
	for _, n := range pending {
		for m := n; !stale[m]; {
			stale[m] = true
			parent, ok := h.Parent(m)
			if !ok {
				tops = append(tops, m)
				break
			}
			m = parent
		}
	}

	var measure func(n tree.NodeID) int
	measure = func(n tree.NodeID) int {
		if height, ok := l.heights[n]; ok && !stale[n] {
			return height
		}
		total := 1
		for c, ok := h.FirstChild(n); ok; c, ok = h.NextSibling(c) {
			total += measure(c)
		}
		l.heights[n] = total
		stale[n] = false
		return total
	}
	for _, top := range tops {
		measure(top)
	}
	return nil
}

// Height returns the last measured height of node.
func (l *stackLayout) Height(node tree.NodeID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heights[node]
}

// Forget drops cached heights for released nodes.
func (l *stackLayout) Forget(ids []tree.NodeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		delete(l.heights, id)
	}
}
