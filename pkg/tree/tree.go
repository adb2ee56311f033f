package tree

import (
	"fmt"

	"github.com/kayak-ui/kayak/internal/errors"
)

// Tree is an ordered forest of NodeIDs.
//
// Every node has an entry in children (possibly empty); a node without an
// entry in parents is a root. The order of a child list is sibling and
// layout order.
type Tree struct {
	parents  map[NodeID]NodeID
	children map[NodeID][]NodeID
	roots    []NodeID
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{
		parents:  make(map[NodeID]NodeID),
		children: make(map[NodeID][]NodeID),
	}
}

// Contains reports whether node is in the tree.
func (t *Tree) Contains(node NodeID) bool {
	_, ok := t.children[node]
	return ok
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.children)
}

// Root returns the first root, or InvalidID for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.roots) == 0 {
		return InvalidID
	}
	return t.roots[0]
}

// Roots returns a copy of the root list in order.
func (t *Tree) Roots() []NodeID {
	return append([]NodeID(nil), t.roots...)
}

// Add appends node as the last child of parent. Passing None as parent adds
// node as the last root.
//
// Add panics with a *errors.KayakError if node is invalid, already in the
// tree, or parent is not in the tree.
func (t *Tree) Add(node, parent NodeID) {
	t.checkAdd(node, parent)
	t.insert(node, parent, len(t.siblingList(parent)))
}

// AddAt inserts node as a child of parent at index, clamped to the valid
// range. It panics under the same conditions as Add.
func (t *Tree) AddAt(node, parent NodeID, index int) {
	t.checkAdd(node, parent)
	t.insert(node, parent, index)
}

// Remove deletes node and its entire subtree. It returns false if node is
// not in the tree.
func (t *Tree) Remove(node NodeID) bool {
	if !t.Contains(node) {
		return false
	}
	t.removeSubtree(node, nil)
	return true
}

// RemoveShallow deletes node alone. Its children take its place in the
// parent's child list, in order; the children of a removed root become
// roots. It returns false if node is not in the tree.
func (t *Tree) RemoveShallow(node NodeID) bool {
	if !t.Contains(node) {
		return false
	}

	kids := t.children[node]
	parent, hasParent := t.parents[node]

	list := t.siblingList(parent)
	i := indexOf(list, node)

	spliced := make([]NodeID, 0, len(list)-1+len(kids))
	spliced = append(spliced, list[:i]...)
	spliced = append(spliced, kids...)
	spliced = append(spliced, list[i+1:]...)

	for _, kid := range kids {
		if hasParent {
			t.parents[kid] = parent
		} else {
			delete(t.parents, kid)
		}
	}
	if hasParent {
		t.children[parent] = spliced
	} else {
		t.roots = spliced
	}

	delete(t.children, node)
	delete(t.parents, node)
	return true
}

// Move re-attaches node, with its subtree, under parent at index. None as
// parent makes node a root. It returns false if node or parent is not in the
// tree, and panics with a *errors.KayakError if parent is inside node's
// subtree.
func (t *Tree) Move(node, parent NodeID, index int) bool {
	if !t.Contains(node) || (parent != None && !t.Contains(parent)) {
		return false
	}
	if parent != None && t.isAncestor(node, parent) {
		panic(errors.New("K002").WithDetail(fmt.Sprintf("cannot move %v under %v", node, parent)))
	}
	t.detach(node)
	t.attach(node, parent, index)
	return true
}

// Clear removes every node.
func (t *Tree) Clear() {
	clear(t.parents)
	clear(t.children)
	t.roots = nil
}

// Clone returns a deep copy of the tree structure.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		parents:  make(map[NodeID]NodeID, len(t.parents)),
		children: make(map[NodeID][]NodeID, len(t.children)),
		roots:    append([]NodeID(nil), t.roots...),
	}
	for k, v := range t.parents {
		c.parents[k] = v
	}
	for k, v := range t.children {
		c.children[k] = append([]NodeID(nil), v...)
	}
	return c
}

// Validate checks the bidirectional parent/children invariants, single
// ownership and acyclicity. It returns a *errors.KayakError (K011)
// describing the first violation found.
func (t *Tree) Validate() error {
	fail := func(format string, args ...any) error {
		return errors.New("K011").WithDetail(fmt.Sprintf(format, args...))
	}

	owner := make(map[NodeID]NodeID, len(t.children))
	for _, r := range t.roots {
		if _, ok := t.children[r]; !ok {
			return fail("root %v has no node entry", r)
		}
		if _, ok := t.parents[r]; ok {
			return fail("root %v has a parent", r)
		}
		if _, dup := owner[r]; dup {
			return fail("%v listed twice", r)
		}
		owner[r] = None
	}
	for p, kids := range t.children {
		for _, c := range kids {
			if _, dup := owner[c]; dup {
				return fail("%v has more than one owner", c)
			}
			owner[c] = p
			if _, ok := t.children[c]; !ok {
				return fail("child %v of %v has no node entry", c, p)
			}
			if got, ok := t.parents[c]; !ok || got != p {
				return fail("%v is listed under %v but its parent is %v", c, p, got)
			}
		}
	}
	if len(owner) != len(t.children) {
		return fail("%d nodes are unreachable from any root", len(t.children)-len(owner))
	}
	for c, p := range t.parents {
		if owner[c] != p {
			return fail("parent entry %v -> %v has no matching child entry", c, p)
		}
	}
	for node := range t.children {
		steps := 0
		for p, ok := t.parents[node]; ok; p, ok = t.parents[p] {
			steps++
			if steps > len(t.children) {
				return fail("cycle through %v", node)
			}
		}
	}
	return nil
}

func (t *Tree) checkAdd(node, parent NodeID) {
	if !node.IsValid() {
		panic(errors.New("K004"))
	}
	if t.Contains(node) {
		panic(errors.New("K001").WithDetail(fmt.Sprintf("%v is already in the tree", node)))
	}
	if parent != None && !t.Contains(parent) {
		panic(errors.New("K003").
			WithDetail(fmt.Sprintf("parent %v is not in the tree", parent)).
			WithSuggestion("Add the parent before adding its children"))
	}
}

// insert adds a node that is not yet in the tree.
func (t *Tree) insert(node, parent NodeID, index int) {
	t.children[node] = nil
	t.attach(node, parent, index)
}

// attach links node into parent's child list (or the roots) at index.
func (t *Tree) attach(node, parent NodeID, index int) {
	if parent == None {
		t.roots = insertAt(t.roots, node, index)
		return
	}
	t.parents[node] = parent
	t.children[parent] = insertAt(t.children[parent], node, index)
}

// detach unlinks node from its parent's child list (or the roots) and keeps
// its own entries.
func (t *Tree) detach(node NodeID) {
	if parent, ok := t.parents[node]; ok {
		t.children[parent] = removeFrom(t.children[parent], node)
		delete(t.parents, node)
		return
	}
	t.roots = removeFrom(t.roots, node)
}

// removeSubtree detaches node and deletes it with all descendants, calling
// visit for each deleted node in preorder.
func (t *Tree) removeSubtree(node NodeID, visit func(NodeID)) {
	t.detach(node)
	stack := []NodeID{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visit != nil {
			visit(n)
		}
		kids := t.children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
		delete(t.children, n)
		delete(t.parents, n)
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func (t *Tree) isAncestor(candidate, node NodeID) bool {
	for p, ok := node, true; ok; p, ok = t.parents[p] {
		if p == candidate {
			return true
		}
	}
	return false
}

// siblingList returns the child list of parent, or the roots for None.
func (t *Tree) siblingList(parent NodeID) []NodeID {
	if parent == None {
		return t.roots
	}
	return t.children[parent]
}

func indexOf(list []NodeID, node NodeID) int {
	for i, n := range list {
		if n == node {
			return i
		}
	}
	return -1
}

func insertAt(list []NodeID, node NodeID, index int) []NodeID {
	if index < 0 {
		index = 0
	}
	if index >= len(list) {
		return append(list, node)
	}
	list = append(list, InvalidID)
	copy(list[index+1:], list[index:])
	list[index] = node
	return list
}

// removeFrom deletes node from list without retaining it in the backing array.
func removeFrom(list []NodeID, node NodeID) []NodeID {
	i := indexOf(list, node)
	if i < 0 {
		return list
	}
	copy(list[i:], list[i+1:])
	list[len(list)-1] = InvalidID
	return list[:len(list)-1]
}
