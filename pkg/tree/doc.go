// Package tree provides the widget tree used by Kayak's reconciliation core.
//
// A Tree stores only identifiers and adjacency: a child-to-parent map and a
// parent-to-ordered-children map keyed by NodeID. Widget content lives
// elsewhere, keyed by the same NodeID.
//
// # Reconciliation
//
// DiffChildren compares one parent's child list in the receiver (the
// authoritative, previous-frame tree) with the same parent's child list in a
// freshly rendered tree and returns a slice of Change operations:
//
//	changes := current.DiffChildren(next, parent)
//	report := current.Merge(next, parent, changes)
//
// Identity is NodeID equality. A child present in both lists is the same
// widget; reordering is expressed as Delete followed by Insert at the new
// index. Deletes come first, Inserts follow in ascending index order.
//
// Merge folds the changes into the receiver, copying the full subtree of
// every inserted node from the new tree and reconciling retained children
// recursively, so that afterwards the receiver's subtree under parent is
// structurally identical to the new tree's.
//
// # Traversal
//
// Flatten yields a preorder walk (parent before children, siblings in
// order). Tree implements Hierarchy, the parent/first-child/next-sibling
// contract consumed by layout solvers.
//
// A Tree is not safe for concurrent use.
package tree
