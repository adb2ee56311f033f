// Package render drives Kayak's per-frame reconciliation loop.
//
// A Driver owns the authoritative widget tree. Each frame it drains the set
// of dirty nodes, re-renders the subtree of every dirty node into a scratch
// tree, reconciles that subtree into the authoritative tree, and hands the
// nodes whose geometry may have changed to a LayoutSolver.
//
// # Widgets and identity
//
// A Widget declares its children through a RenderContext:
//
//	list := render.WidgetFunc(func(rc *render.RenderContext) {
//	    for _, item := range items.Get(rc) {
//	        rc.Child(item.Key, row(item))
//	    }
//	})
//
// A child's NodeID is derived from its parent and its key, so a keyed child
// keeps its NodeID across frames even when its position changes. Children
// declared with an empty key are identified by position ("#0", "#1", ...).
// Identifiers are released when the merge reports the node removed.
//
// # State
//
// Binding holds a value read during render. Reading it with Get subscribes
// the rendering node; Set marks every subscriber dirty so it re-renders in
// the next frame. Driver.Batch defers those marks until the outermost batch
// returns.
//
// # Concurrency
//
// Frame, Mount and Unmount take the driver's write lock. View and Flatten
// take the read lock, so a layout pass or an inspector can read the tree
// between frames. MarkDirty and Binding.Set are safe from any goroutine.
package render
