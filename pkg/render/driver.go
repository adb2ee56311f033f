package render

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kayak-ui/kayak/internal/errors"
	"github.com/kayak-ui/kayak/pkg/dirty"
	"github.com/kayak-ui/kayak/pkg/telemetry"
	"github.com/kayak-ui/kayak/pkg/tree"
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithLayoutSolver sets the solver called at the end of every frame.
func WithLayoutSolver(solver LayoutSolver) Option {
	return func(d *Driver) {
		d.solver = solver
	}
}

// WithMetrics records frame metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithTracer records one span per frame.
func WithTracer(t *telemetry.Tracer) Option {
	return func(d *Driver) {
		d.tracer = t
	}
}

// WithDebug validates the tree invariants after every frame.
func WithDebug(debug bool) Option {
	return func(d *Driver) {
		d.debug = debug
	}
}

// WithArena sets the identifier source. Drivers sharing an arena never hand
// out the same NodeID.
func WithArena(a *tree.Arena) Option {
	return func(d *Driver) {
		d.arena = a
	}
}

// Driver owns the authoritative widget tree and runs the frame loop.
type Driver struct {
	id      string
	logger  *slog.Logger
	solver  LayoutSolver
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	debug   bool
	arena   *tree.Arena
	dirty   *dirty.Set

	// frameMu serializes frames.
	frameMu sync.Mutex
	seq     uint64

	// mu guards everything below.
	mu            sync.RWMutex
	tree          *tree.Tree
	widgets       map[tree.NodeID]Widget
	ids           identity
	layoutPending map[tree.NodeID]struct{}

	batchMu    sync.Mutex
	batchDepth int
	batched    []tree.NodeID

	hookMu  sync.Mutex
	hookSeq uint64
	hooks   map[uint64]func(FrameStats)
}

// New creates a Driver with an empty tree.
func New(opts ...Option) *Driver {
	d := &Driver{
		id:            uuid.NewString(),
		dirty:         dirty.New(),
		tree:          tree.New(),
		widgets:       make(map[tree.NodeID]Widget),
		ids:           newIdentity(),
		layoutPending: make(map[tree.NodeID]struct{}),
		hooks:         make(map[uint64]func(FrameStats)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default().With("component", "render")
	}
	d.logger = d.logger.With("driver", d.id)
	if d.arena == nil {
		d.arena = tree.NewArena()
	}
	return d
}

// ID returns the driver's unique instance ID.
func (d *Driver) ID() string {
	return d.id
}

// Mount adds w as a new root widget and marks it dirty, so it renders in the
// next frame.
func (d *Driver) Mount(w Widget) tree.NodeID {
	d.mu.Lock()
	id := d.arena.Alloc()
	d.tree.Add(id, tree.None)
	d.widgets[id] = w
	d.mu.Unlock()

	d.dirty.Mark(id)
	d.logger.Debug("widget mounted", "node", id.String())
	return id
}

// Unmount removes the root node and its whole subtree, releasing their
// identifiers. It returns false if node is not a root.
func (d *Driver) Unmount(node tree.NodeID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, hasParent := d.tree.Parent(node); hasParent || !d.tree.Contains(node) {
		return false
	}
	removed := d.tree.FlattenFrom(node)
	d.tree.Remove(node)
	d.release(removed)
	d.logger.Debug("widget unmounted", "node", node.String(), "released", len(removed))
	return true
}

// MarkDirty schedules ids for re-render in the next frame. Nodes that are
// gone by then are ignored. Inside Batch the marks are deferred until the
// outermost batch returns.
func (d *Driver) MarkDirty(ids ...tree.NodeID) {
	d.batchMu.Lock()
	if d.batchDepth > 0 {
		d.batched = append(d.batched, ids...)
		d.batchMu.Unlock()
		return
	}
	d.batchMu.Unlock()
	d.dirty.Mark(ids...)
}

// Pending returns the number of nodes currently marked dirty.
func (d *Driver) Pending() int {
	return d.dirty.Len()
}

// View calls fn with the tree under the driver's read lock. The tree must
// not be retained or modified after fn returns.
func (d *Driver) View(fn func(h tree.Hierarchy)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.tree)
}

// Flatten returns the tree in preorder.
func (d *Driver) Flatten() []tree.NodeID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Flatten()
}

// Tree returns a snapshot copy of the authoritative tree.
func (d *Driver) Tree() *tree.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Clone()
}

// Widget returns the widget last declared for node.
func (d *Driver) Widget(node tree.NodeID) (Widget, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, ok := d.widgets[node]
	return w, ok
}

// OnFrame registers fn to be called after every frame. The returned
// function removes it.
func (d *Driver) OnFrame(fn func(FrameStats)) (cancel func()) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.hookSeq++
	key := d.hookSeq
	d.hooks[key] = fn
	return func() {
		d.hookMu.Lock()
		defer d.hookMu.Unlock()
		delete(d.hooks, key)
	}
}

func (d *Driver) notify(stats FrameStats) {
	d.hookMu.Lock()
	hooks := make([]func(FrameStats), 0, len(d.hooks))
	for _, fn := range d.hooks {
		hooks = append(hooks, fn)
	}
	d.hookMu.Unlock()

	for _, fn := range hooks {
		fn(stats)
	}
}

// Frame runs one frame:
//
//  1. Drain the dirty set. Nodes no longer in the tree, and nodes with a
//     dirty ancestor, are dropped.
//  2. Re-render each remaining node's subtree, in preorder, into a scratch
//     tree and reconcile it into the authoritative tree.
//  3. Release the identifiers of removed nodes.
//  4. Pass the touched nodes to the layout solver and mark the nodes it
//     returns dirty.
//
// A widget that panics aborts the render of its dirty subtree only; the
// tree keeps its previous shape there and the panic is returned as a K010
// error alongside the stats. Other subtrees still render.
func (d *Driver) Frame(ctx context.Context) (stats FrameStats, err error) {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	start := time.Now()
	d.seq++
	stats.Seq = d.seq

	ctx, span := d.tracer.StartFrame(ctx, stats.Seq)
	defer func() {
		stats.Duration = time.Since(start)
		if err != nil {
			stats.Error = err.Error()
		}
		sample := telemetry.FrameSample{
			Duration: stats.Duration,
			Dirty:    stats.Dirty,
			Rendered: stats.Rendered,
			Inserted: stats.Inserted,
			Removed:  stats.Removed,
			Updated:  stats.Updated,
			TreeSize: stats.TreeSize,
			Err:      err,
		}
		span.End(sample)
		d.metrics.ObserveFrame(sample)
		if !stats.Idle() {
			d.logger.Debug("frame",
				"seq", stats.Seq,
				"dirty", stats.Dirty,
				"rendered", stats.Rendered,
				"inserted", stats.Inserted,
				"removed", stats.Removed,
				"updated", stats.Updated,
				"nodes", stats.TreeSize,
				"duration", stats.Duration,
			)
		}
		d.notify(stats)
	}()

	if cerr := ctx.Err(); cerr != nil {
		return stats, cerr
	}

	drained := d.dirty.Drain()
	stats.Dirty = len(drained)

	d.mu.Lock()
	var errs []error
	for _, node := range d.renderOrder(drained) {
		report, rerr := d.renderSubtree(node)
		if rerr != nil {
			d.logger.Error("widget render failed",
				"node", node.String(),
				"error", errors.FromError(rerr, "K010").FormatCompact(),
			)
			errs = append(errs, rerr)
			continue
		}
		stats.Rendered++
		stats.Report.Add(report)
	}
	stats.Inserted = len(stats.Report.Inserted)
	stats.Removed = len(stats.Report.Removed)
	stats.Updated = len(stats.Report.Updated)
	stats.TreeSize = d.tree.Len()

	if d.debug {
		if verr := d.tree.Validate(); verr != nil {
			d.logger.Error("tree invariant violated", "seq", stats.Seq, "error", verr)
			errs = append(errs, verr)
		}
	}
	pending := d.takePending()
	d.mu.Unlock()

	if len(pending) > 0 && d.solver != nil {
		d.mu.RLock()
		// An Unmount may have released some of them since Unlock.
		pending = d.live(pending)
		var relayout []tree.NodeID
		if len(pending) > 0 {
			span.Event("layout", attribute.Int("kayak.layout.pending", len(pending)))
			relayout = d.solver.Layout(d.tree, pending)
		}
		d.mu.RUnlock()

		stats.LaidOut = len(pending)
		stats.Relayout = len(relayout)
		d.dirty.Mark(relayout...)
	}

	return stats, stderrors.Join(errs...)
}

// renderOrder returns the drained nodes that are still in the tree and have
// no dirty ancestor, in preorder.
func (d *Driver) renderOrder(drained []tree.NodeID) []tree.NodeID {
	set := make(map[tree.NodeID]struct{}, len(drained))
	for _, id := range drained {
		if d.tree.Contains(id) {
			set[id] = struct{}{}
		}
	}

	tops := make(map[tree.NodeID]struct{}, len(set))
	for id := range set {
		if !d.hasAncestorIn(id, set) {
			tops[id] = struct{}{}
		}
	}
	if len(tops) == 0 {
		return nil
	}

	order := make([]tree.NodeID, 0, len(tops))
	d.tree.Walk(func(n tree.NodeID, _ int) bool {
		if _, ok := tops[n]; ok {
			order = append(order, n)
		}
		return len(order) < len(tops)
	})
	return order
}

func (d *Driver) hasAncestorIn(node tree.NodeID, set map[tree.NodeID]struct{}) bool {
	for {
		parent, ok := d.tree.Parent(node)
		if !ok {
			return false
		}
		if _, marked := set[parent]; marked {
			return true
		}
		node = parent
	}
}

// renderSubtree re-renders node's subtree and merges it into the tree.
func (d *Driver) renderSubtree(node tree.NodeID) (report tree.MergeReport, err error) {
	w := d.widgets[node]
	if w == nil {
		w = Leaf
	}

	p := &renderPass{
		driver:  d,
		scratch: tree.New(),
		widgets: make(map[tree.NodeID]Widget),
	}
	p.scratch.Add(node, tree.None)

	defer func() {
		if r := recover(); r != nil {
			p.rollback()
			d.metrics.RecordRenderPanic()
			err = panicError(node, r)
		}
	}()
	p.render(node, w)

	// Remember where current descendants hang so parents of removed nodes
	// can be re-laid out.
	prevParent := make(map[tree.NodeID]tree.NodeID)
	for _, n := range d.tree.FlattenFrom(node) {
		if parent, ok := d.tree.Parent(n); ok {
			prevParent[n] = parent
		}
	}

	changes := d.tree.DiffChildren(p.scratch, node)
	changes = append(changes, tree.UpdateChange(node))
	report = d.tree.Merge(p.scratch, node, changes)

	for id, declared := range p.widgets {
		d.widgets[id] = declared
	}
	d.release(report.Removed)

	for _, id := range report.Inserted {
		d.layoutPending[id] = struct{}{}
	}
	for _, id := range report.Updated {
		d.layoutPending[id] = struct{}{}
	}
	for _, id := range report.Removed {
		if parent, ok := prevParent[id]; ok && d.tree.Contains(parent) {
			d.layoutPending[parent] = struct{}{}
		}
	}
	return report, nil
}

// live filters ids down to those still in the tree, in place. Callers hold
// d.mu.
func (d *Driver) live(ids []tree.NodeID) []tree.NodeID {
	return slices.DeleteFunc(ids, func(id tree.NodeID) bool {
		return !d.tree.Contains(id)
	})
}

// takePending returns the layout-pending nodes in preorder and clears the set.
func (d *Driver) takePending() []tree.NodeID {
	if len(d.layoutPending) == 0 {
		return nil
	}
	pending := make([]tree.NodeID, 0, len(d.layoutPending))
	d.tree.Walk(func(n tree.NodeID, _ int) bool {
		if _, ok := d.layoutPending[n]; ok {
			pending = append(pending, n)
		}
		return true
	})
	clear(d.layoutPending)
	return pending
}

func panicError(node tree.NodeID, r any) error {
	if ke, ok := r.(*errors.KayakError); ok {
		return ke
	}
	ke := errors.New("K010").
		WithDetail(fmt.Sprintf("widget %s panicked: %v", node, r))
	if e, ok := r.(error); ok {
		ke.Wrap(e)
	}
	return ke
}

// renderPass holds the scratch state of one subtree render.
type renderPass struct {
	driver  *Driver
	scratch *tree.Tree
	widgets map[tree.NodeID]Widget

	// fresh lists identifiers allocated during this pass.
	fresh []tree.NodeID
}

func (p *renderPass) render(node tree.NodeID, w Widget) {
	rc := &RenderContext{pass: p, node: node}
	w.Render(rc)
}

// rollback releases identifiers allocated by a failed pass.
func (p *renderPass) rollback() {
	d := p.driver
	for _, id := range p.fresh {
		if s, ok := d.ids.keyOf[id]; ok {
			delete(d.ids.byKey, s)
			delete(d.ids.keyOf, id)
		}
		d.arena.Free(id)
	}
}
