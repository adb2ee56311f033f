package tree

import "slices"

// DiffChildren compares parent's children in t (the previous frame) with
// parent's children in next and returns the changes that turn the former
// into the latter. None as parent diffs the root lists.
//
// The result is nil when parent is in neither tree or when both child
// sequences are identical. Otherwise it holds every Delete (in old order)
// followed by every Insert (in ascending index order). A child present in
// both lists that has to change position is deleted and re-inserted; the
// children left in place form a longest increasing subsequence of their old
// positions, so no more children move than necessary.
//
// DiffChildren never emits Update: whether a retained node's content changed
// is decided by whoever rendered next.
func (t *Tree) DiffChildren(next *Tree, parent NodeID) []Change {
	if !t.hasList(parent) && !next.hasList(parent) {
		return nil
	}
	prev := t.siblingList(parent)
	curr := next.siblingList(parent)

	// Steady state: a widget re-rendered with the same children.
	if slices.Equal(prev, curr) {
		return nil
	}
	return diffLists(parent, prev, curr)
}

// hasList reports whether parent names a child list in t.
func (t *Tree) hasList(parent NodeID) bool {
	return parent == None || t.Contains(parent)
}

func diffLists(parent NodeID, prev, curr []NodeID) []Change {
	prevIndex := make(map[NodeID]int, len(prev))
	for i, n := range prev {
		prevIndex[n] = i
	}

	// Old positions of retained children, taken in new order.
	var retained []NodeID
	var positions []int
	for _, n := range curr {
		if i, ok := prevIndex[n]; ok {
			retained = append(retained, n)
			positions = append(positions, i)
		}
	}

	stay := make(map[NodeID]struct{}, len(retained))
	for _, i := range longestIncreasing(positions) {
		stay[retained[i]] = struct{}{}
	}

	changes := make([]Change, 0, len(prev)+len(curr)-2*len(stay))
	for _, n := range prev {
		if _, ok := stay[n]; !ok {
			changes = append(changes, DeleteChange(n))
		}
	}
	for i, n := range curr {
		if _, ok := stay[n]; !ok {
			changes = append(changes, InsertChange(parent, n, i))
		}
	}
	return changes
}

// longestIncreasing returns the indices of one longest strictly increasing
// subsequence of seq, in ascending order.
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}

	// tails[k] is the index in seq of the smallest tail of an increasing
	// run of length k+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	out := make([]int, len(tails))
	for k, i := len(tails)-1, tails[len(tails)-1]; k >= 0; k, i = k-1, prev[i] {
		out[k] = i
	}
	return out
}
