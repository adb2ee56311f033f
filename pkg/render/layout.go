package render

import "github.com/kayak-ui/kayak/pkg/tree"

// LayoutSolver computes geometry for the nodes a frame touched.
//
// Layout is called once per frame, after reconciliation, with the driver's
// read lock held. pending lists the inserted, updated and structurally
// changed nodes still in the tree, in preorder. The solver may return nodes
// whose size change requires them to be rendered again; they are marked
// dirty for the next frame.
type LayoutSolver interface {
	Layout(h tree.Hierarchy, pending []tree.NodeID) (relayout []tree.NodeID)
}

// LayoutFunc adapts a function to the LayoutSolver interface.
type LayoutFunc func(h tree.Hierarchy, pending []tree.NodeID) []tree.NodeID

// Layout calls f(h, pending).
func (f LayoutFunc) Layout(h tree.Hierarchy, pending []tree.NodeID) []tree.NodeID {
	return f(h, pending)
}
