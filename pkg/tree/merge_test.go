package tree

import (
	"math/rand"
	"slices"
	"testing"
)

// randomTree builds a tree rooted at id(1) from a random subset of the ids
// 2..pool, attached at random positions.
func randomTree(rng *rand.Rand, pool int) *Tree {
	t := New()
	root := id(1)
	t.Add(root, None)

	nodes := []NodeID{root}
	for i := 2; i <= pool; i++ {
		if rng.Intn(3) == 0 {
			continue
		}
		n := id(uint32(i))
		parent := nodes[rng.Intn(len(nodes))]
		t.AddAt(n, parent, rng.Intn(t.ChildCount(parent)+1))
		nodes = append(nodes, n)
	}
	return t
}

// checkConverged checks that no parent in either tree still has a diff.
func checkConverged(t *testing.T, got, want *Tree) {
	t.Helper()
	for _, p := range append(want.Flatten(), got.Flatten()...) {
		if changes := got.DiffChildren(want, p); len(changes) != 0 {
			t.Fatalf("parent %v still differs: %v", p, changes)
		}
	}
	if g, w := got.Flatten(), want.Flatten(); !slices.Equal(g, w) {
		t.Fatalf("Flatten() = %v, want %v", g, w)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestMergeRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		prev := randomTree(rng, 2+rng.Intn(30))
		next := randomTree(rng, 2+rng.Intn(30))
		root := prev.Root()

		changes := prev.DiffChildren(next, root)
		prev.Merge(next, root, changes)

		checkConverged(t, prev, next)
	}
}

func TestMergeTwiceIsStable(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		prev := randomTree(rng, 20)
		next := randomTree(rng, 20)
		root := prev.Root()

		changes := prev.DiffChildren(next, root)
		prev.Merge(next, root, changes)
		once := prev.Clone()

		prev.Merge(next, root, changes)
		if !slices.Equal(once.Flatten(), prev.Flatten()) {
			t.Fatalf("second merge changed the tree: %v, want %v", prev.Flatten(), once.Flatten())
		}
		checkConverged(t, prev, next)
	}
}

func TestMergeDeepInsertCarriesSubtree(t *testing.T) {
	r, n, c1, c2 := id(1), id(2), id(3), id(4)
	prev := build(r, nil)
	next := build(r, map[NodeID][]NodeID{r: {n}, n: {c1, c2}})

	report := prev.Reconcile(next, r)

	if first, ok := prev.FirstChild(n); !ok || first != c1 {
		t.Errorf("FirstChild(n) = %v, %v; want %v", first, ok, c1)
	}
	if sib, ok := prev.NextSibling(c1); !ok || sib != c2 {
		t.Errorf("NextSibling(c1) = %v, %v; want %v", sib, ok, c2)
	}
	if !slices.Equal(report.Inserted, []NodeID{n, c1, c2}) {
		t.Errorf("Inserted = %v", report.Inserted)
	}
	if len(report.Removed) != 0 {
		t.Errorf("Removed = %v, want none", report.Removed)
	}
}

func TestMergeOrderPreserved(t *testing.T) {
	r := id(1)
	prev := build(r, map[NodeID][]NodeID{r: toIDs([]uint32{2, 3, 4, 5, 6})})
	next := build(r, map[NodeID][]NodeID{r: toIDs([]uint32{7, 6, 4, 2, 8})})

	prev.Reconcile(next, r)

	var order []NodeID
	for n, ok := prev.FirstChild(r); ok; n, ok = prev.NextSibling(n) {
		order = append(order, n)
	}
	if !slices.Equal(order, next.Children(r)) {
		t.Errorf("order = %v, want %v", order, next.Children(r))
	}
}

func TestMergeDeleteAbsentIsNoop(t *testing.T) {
	r, a := id(1), id(2)
	prev := build(r, map[NodeID][]NodeID{r: {a}})
	next := build(r, map[NodeID][]NodeID{r: {a}})

	report := prev.Merge(next, r, []Change{DeleteChange(id(42))})

	if !report.Empty() {
		t.Errorf("report = %+v, want empty", report)
	}
	if !slices.Equal(prev.Flatten(), []NodeID{r, a}) {
		t.Errorf("Flatten() = %v", prev.Flatten())
	}
}

func TestMergeAbsentParentIsNoop(t *testing.T) {
	prev := build(id(1), nil)
	next := build(id(5), map[NodeID][]NodeID{id(5): {id(6)}})

	report := prev.Reconcile(next, id(5))

	if !report.Empty() {
		t.Errorf("report = %+v, want empty", report)
	}
	if !slices.Equal(prev.Flatten(), []NodeID{id(1)}) {
		t.Errorf("Flatten() = %v", prev.Flatten())
	}
}

func TestMergeReportsMovedNodesAsInsertedNotRemoved(t *testing.T) {
	r, a, b, a1 := id(1), id(2), id(3), id(4)
	prev := build(r, map[NodeID][]NodeID{r: {a, b}, a: {a1}})
	next := build(r, map[NodeID][]NodeID{r: {b, a}, a: {a1}})

	report := prev.Reconcile(next, r)

	if len(report.Removed) != 0 {
		t.Errorf("Removed = %v; moved nodes keep their identity", report.Removed)
	}
	if len(report.Inserted) == 0 {
		t.Error("Inserted is empty")
	}
	checkConverged(t, prev, next)
}

func TestMergeReportsRemovedSubtree(t *testing.T) {
	r, a, a1, a2, b := id(1), id(2), id(3), id(4), id(5)
	prev := build(r, map[NodeID][]NodeID{r: {a, b}, a: {a1}, a1: {a2}})
	next := build(r, map[NodeID][]NodeID{r: {b}})

	report := prev.Reconcile(next, r)

	if !slices.Equal(report.Removed, []NodeID{a, a1, a2}) {
		t.Errorf("Removed = %v", report.Removed)
	}
	if len(report.Inserted) != 0 {
		t.Errorf("Inserted = %v, want none", report.Inserted)
	}
}

func TestMergeCrossParentMove(t *testing.T) {
	r, p, q, x, x1 := id(1), id(2), id(3), id(4), id(5)
	prev := build(r, map[NodeID][]NodeID{r: {p, q}, q: {x}, x: {x1}})
	next := build(r, map[NodeID][]NodeID{r: {p, q}, p: {x}, x: {x1}})

	report := prev.Reconcile(next, r)

	checkConverged(t, prev, next)
	if len(report.Removed) != 0 {
		t.Errorf("Removed = %v, want none", report.Removed)
	}
	if parent, _ := prev.Parent(x); parent != p {
		t.Errorf("Parent(x) = %v, want %v", parent, p)
	}
}

func TestMergeUpdateIsReported(t *testing.T) {
	r, a := id(1), id(2)
	prev := build(r, map[NodeID][]NodeID{r: {a}})
	next := build(r, map[NodeID][]NodeID{r: {a}})

	report := prev.Merge(next, r, []Change{UpdateChange(a), UpdateChange(id(9))})

	if !slices.Equal(report.Updated, []NodeID{a}) {
		t.Errorf("Updated = %v", report.Updated)
	}
	if !slices.Equal(prev.Flatten(), []NodeID{r, a}) {
		t.Errorf("Flatten() = %v", prev.Flatten())
	}
}

func TestMergeRetainedChildrenReconciled(t *testing.T) {
	r, a, a1, a2 := id(1), id(2), id(3), id(4)
	prev := build(r, map[NodeID][]NodeID{r: {a}, a: {a1}})
	next := build(r, map[NodeID][]NodeID{r: {a}, a: {a2}})

	// The root's own child list is unchanged; the difference is one level down.
	if changes := prev.DiffChildren(next, r); len(changes) != 0 {
		t.Fatalf("DiffChildren(r) = %v, want none", changes)
	}

	report := prev.Reconcile(next, r)

	checkConverged(t, prev, next)
	if !slices.Equal(report.Inserted, []NodeID{a2}) {
		t.Errorf("Inserted = %v", report.Inserted)
	}
	if !slices.Equal(report.Removed, []NodeID{a1}) {
		t.Errorf("Removed = %v", report.Removed)
	}
}

func TestMergeReportAdd(t *testing.T) {
	var total MergeReport
	total.Add(MergeReport{Inserted: []NodeID{id(1)}})
	total.Add(MergeReport{Removed: []NodeID{id(2)}, Updated: []NodeID{id(3)}})

	if !slices.Equal(total.Inserted, []NodeID{id(1)}) ||
		!slices.Equal(total.Removed, []NodeID{id(2)}) ||
		!slices.Equal(total.Updated, []NodeID{id(3)}) {
		t.Errorf("total = %+v", total)
	}
	if total.Empty() {
		t.Error("Empty() = true")
	}
}
