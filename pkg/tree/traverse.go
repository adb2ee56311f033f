package tree

// Hierarchy is the traversal contract a layout solver walks. Sibling order
// is the order produced by Add and Merge.
type Hierarchy interface {
	Root() NodeID
	Parent(node NodeID) (NodeID, bool)
	FirstChild(node NodeID) (NodeID, bool)
	NextSibling(node NodeID) (NodeID, bool)
	PrevSibling(node NodeID) (NodeID, bool)
	IsFirstChild(node NodeID) bool
	IsLastChild(node NodeID) bool
	Flatten() []NodeID
}

var _ Hierarchy = (*Tree)(nil)

// Parent returns node's parent. The second result is false for roots and
// for nodes not in the tree.
func (t *Tree) Parent(node NodeID) (NodeID, bool) {
	p, ok := t.parents[node]
	return p, ok
}

// Children returns a copy of node's child list.
func (t *Tree) Children(node NodeID) []NodeID {
	kids := t.children[node]
	if len(kids) == 0 {
		return nil
	}
	return append([]NodeID(nil), kids...)
}

// ChildCount returns the number of children of node.
func (t *Tree) ChildCount(node NodeID) int {
	return len(t.children[node])
}

// FirstChild returns node's first child.
func (t *Tree) FirstChild(node NodeID) (NodeID, bool) {
	kids := t.children[node]
	if len(kids) == 0 {
		return InvalidID, false
	}
	return kids[0], true
}

// LastChild returns node's last child.
func (t *Tree) LastChild(node NodeID) (NodeID, bool) {
	kids := t.children[node]
	if len(kids) == 0 {
		return InvalidID, false
	}
	return kids[len(kids)-1], true
}

// NextSibling returns the sibling after node. Roots are siblings of each other.
func (t *Tree) NextSibling(node NodeID) (NodeID, bool) {
	list, i := t.position(node)
	if i < 0 || i+1 >= len(list) {
		return InvalidID, false
	}
	return list[i+1], true
}

// PrevSibling returns the sibling before node.
func (t *Tree) PrevSibling(node NodeID) (NodeID, bool) {
	list, i := t.position(node)
	if i <= 0 {
		return InvalidID, false
	}
	return list[i-1], true
}

// IsFirstChild reports whether node is the first of its siblings.
func (t *Tree) IsFirstChild(node NodeID) bool {
	_, i := t.position(node)
	return i == 0
}

// IsLastChild reports whether node is the last of its siblings.
func (t *Tree) IsLastChild(node NodeID) bool {
	list, i := t.position(node)
	return i >= 0 && i == len(list)-1
}

// IndexOf returns node's position among its siblings, or -1.
func (t *Tree) IndexOf(node NodeID) int {
	_, i := t.position(node)
	return i
}

// Depth returns the number of ancestors of node, or -1 if node is absent.
func (t *Tree) Depth(node NodeID) int {
	if !t.Contains(node) {
		return -1
	}
	depth := 0
	for p, ok := t.parents[node]; ok; p, ok = t.parents[p] {
		depth++
	}
	return depth
}

// Flatten returns every node in preorder: each root in order, then
// depth-first through children in sibling order. The result is freshly
// allocated on every call.
func (t *Tree) Flatten() []NodeID {
	out := make([]NodeID, 0, len(t.children))
	t.walk(t.roots, func(n NodeID, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// FlattenFrom returns node's subtree in preorder, starting with node.
func (t *Tree) FlattenFrom(node NodeID) []NodeID {
	if !t.Contains(node) {
		return nil
	}
	var out []NodeID
	t.walk([]NodeID{node}, func(n NodeID, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Walk visits every node in the same order as Flatten, passing its depth.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(node NodeID, depth int) bool) {
	t.walk(t.roots, fn)
}

// WalkFrom is Walk restricted to node's subtree; depths are relative to node.
func (t *Tree) WalkFrom(node NodeID, fn func(node NodeID, depth int) bool) {
	if !t.Contains(node) {
		return
	}
	t.walk([]NodeID{node}, fn)
}

func (t *Tree) walk(start []NodeID, fn func(NodeID, int) bool) {
	type frame struct {
		node  NodeID
		depth int
	}
	stack := make([]frame, 0, len(start))
	for i := len(start) - 1; i >= 0; i-- {
		stack = append(stack, frame{start[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			return
		}
		kids := t.children[f.node]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

// position returns the sibling list holding node and node's index in it.
func (t *Tree) position(node NodeID) ([]NodeID, int) {
	if !t.Contains(node) {
		return nil, -1
	}
	list := t.siblingList(t.parents[node])
	return list, indexOf(list, node)
}
