package tree

import "fmt"

// ChangeOp is the type of a structural change.
type ChangeOp uint8

const (
	ChangeInsert ChangeOp = 0x01 // Attach node under parent at index
	ChangeDelete ChangeOp = 0x02 // Remove node and its subtree
	ChangeUpdate ChangeOp = 0x03 // Same node, same place, content changed
)

// String returns the string representation of the ChangeOp.
func (op ChangeOp) String() string {
	switch op {
	case ChangeInsert:
		return "Insert"
	case ChangeDelete:
		return "Delete"
	case ChangeUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Change is a single operation in a children diff.
type Change struct {
	Op     ChangeOp // Operation type
	Parent NodeID   // Parent the diff was computed for (Insert only)
	Node   NodeID   // Target node
	Index  int      // Target position among the parent's children (Insert only)
}

// InsertChange builds an Insert of node under parent at index.
func InsertChange(parent, node NodeID, index int) Change {
	return Change{Op: ChangeInsert, Parent: parent, Node: node, Index: index}
}

// DeleteChange builds a Delete of node.
func DeleteChange(node NodeID) Change {
	return Change{Op: ChangeDelete, Node: node}
}

// UpdateChange builds an Update of node.
func UpdateChange(node NodeID) Change {
	return Change{Op: ChangeUpdate, Node: node}
}

// String returns a compact description, e.g. "Insert(n4v1 -> n1v1@2)".
func (c Change) String() string {
	if c.Op == ChangeInsert {
		return fmt.Sprintf("%s(%v -> %v@%d)", c.Op, c.Node, c.Parent, c.Index)
	}
	return fmt.Sprintf("%s(%v)", c.Op, c.Node)
}

// CountChanges tallies changes by operation.
func CountChanges(changes []Change) map[ChangeOp]int {
	counts := make(map[ChangeOp]int, 3)
	for _, c := range changes {
		counts[c.Op]++
	}
	return counts
}
