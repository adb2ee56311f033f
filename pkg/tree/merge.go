package tree

// MergeReport lists the nodes a merge touched, in the order they were touched.
type MergeReport struct {
	// Inserted holds nodes attached at a new position, including moved ones
	// and every descendant copied in with them.
	Inserted []NodeID

	// Updated holds nodes named by Update changes.
	Updated []NodeID

	// Removed holds nodes that left the tree and did not come back within
	// the same merge. Their identifiers may be released.
	Removed []NodeID
}

// Empty reports whether the merge touched nothing.
func (r MergeReport) Empty() bool {
	return len(r.Inserted) == 0 && len(r.Updated) == 0 && len(r.Removed) == 0
}

// Add appends the contents of other to r.
func (r *MergeReport) Add(other MergeReport) {
	r.Inserted = append(r.Inserted, other.Inserted...)
	r.Updated = append(r.Updated, other.Updated...)
	r.Removed = append(r.Removed, other.Removed...)
}

// Reconcile diffs parent's children against next and merges the result.
func (t *Tree) Reconcile(next *Tree, parent NodeID) MergeReport {
	return t.Merge(next, parent, t.DiffChildren(next, parent))
}

// Merge applies changes, computed by t.DiffChildren(next, parent), to t.
// Afterwards t's subtree under parent is structurally identical to next's:
//
//   - Delete removes the node and its whole subtree. Deleting a node that
//     is not in t does nothing.
//   - Insert attaches the node under parent at the given index. A node that
//     is already somewhere in t is moved there with its subtree, which also
//     makes applying the same changes twice harmless.
//   - Update only records the node in the report.
//
// Every child of parent is then reconciled recursively, so inserted nodes
// receive their full subtree from next and retained children pick up
// changes further down.
//
// Merge does nothing when parent is not in t. Changes computed against a
// different pair of trees give unspecified, but invariant-preserving,
// results.
func (t *Tree) Merge(next *Tree, parent NodeID, changes []Change) MergeReport {
	m := merger{
		next:    next,
		touched: make(map[NodeID]struct{}),
	}
	t.merge(&m, parent, changes)
	return m.finish(t)
}

type merger struct {
	next    *Tree
	report  MergeReport
	touched map[NodeID]struct{}
}

func (t *Tree) merge(m *merger, parent NodeID, changes []Change) {
	if !t.hasList(parent) {
		return
	}

	for _, c := range changes {
		switch c.Op {
		case ChangeDelete:
			if !t.Contains(c.Node) {
				continue
			}
			t.removeSubtree(c.Node, func(n NodeID) {
				m.report.Removed = append(m.report.Removed, n)
			})

		case ChangeInsert:
			if !c.Node.IsValid() {
				continue
			}
			if t.Contains(c.Node) {
				if parent != None && t.isAncestor(c.Node, parent) {
					continue
				}
				t.detach(c.Node)
				t.attach(c.Node, parent, c.Index)
			} else {
				t.insert(c.Node, parent, c.Index)
			}
			m.inserted(c.Node)

		case ChangeUpdate:
			if t.Contains(c.Node) {
				m.report.Updated = append(m.report.Updated, c.Node)
			}
		}
	}

	kids := append([]NodeID(nil), t.siblingList(parent)...)
	for _, child := range kids {
		if !m.next.Contains(child) {
			continue
		}
		t.merge(m, child, t.DiffChildren(m.next, child))
	}
}

// inserted records node once.
func (m *merger) inserted(node NodeID) {
	if _, ok := m.touched[node]; ok {
		return
	}
	m.touched[node] = struct{}{}
	m.report.Inserted = append(m.report.Inserted, node)
}

// finish drops removed nodes that were re-inserted and inserted nodes that
// were later removed.
func (m *merger) finish(t *Tree) MergeReport {
	r := m.report

	removed := r.Removed[:0]
	seen := make(map[NodeID]struct{}, len(r.Removed))
	for _, n := range r.Removed {
		if _, dup := seen[n]; dup || t.Contains(n) {
			continue
		}
		seen[n] = struct{}{}
		removed = append(removed, n)
	}
	r.Removed = removed

	inserted := r.Inserted[:0]
	for _, n := range r.Inserted {
		if t.Contains(n) {
			inserted = append(inserted, n)
		}
	}
	r.Inserted = inserted

	return r
}
