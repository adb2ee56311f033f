package render

import (
	"reflect"
	"sync"

	"github.com/kayak-ui/kayak/pkg/tree"
)

// Binding is a reactive value. Widgets read it during render with Get,
// which subscribes the rendering node; Set marks every subscriber dirty.
type Binding[T any] struct {
	driver *Driver

	mu    sync.RWMutex
	value T
	subs  map[tree.NodeID]struct{}

	// equal decides whether Set changes the value. If nil,
	// reflect.DeepEqual is used.
	equal func(T, T) bool
}

// NewBinding creates a binding whose subscribers are marked dirty on d.
func NewBinding[T any](d *Driver, initial T) *Binding[T] {
	return &Binding[T]{
		driver: d,
		value:  initial,
		subs:   make(map[tree.NodeID]struct{}),
	}
}

// WithEquals sets a custom equality function and returns the binding.
func (b *Binding[T]) WithEquals(fn func(T, T) bool) *Binding[T] {
	b.equal = fn
	return b
}

// Get returns the value and subscribes the node being rendered by rc.
func (b *Binding[T]) Get(rc *RenderContext) T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rc != nil {
		b.subs[rc.Node()] = struct{}{}
	}
	return b.value
}

// Peek returns the value without subscribing.
func (b *Binding[T]) Peek() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Set stores value and, if it changed, marks the subscribers dirty.
func (b *Binding[T]) Set(value T) {
	b.Update(func(T) T { return value })
}

// Update replaces the value with fn(current) and, if it changed, marks the
// subscribers dirty.
func (b *Binding[T]) Update(fn func(T) T) {
	b.mu.Lock()
	old := b.value
	next := fn(old)
	changed := !b.equals(old, next)
	if changed {
		b.value = next
	}
	subs := b.subscribers()
	b.mu.Unlock()

	if changed {
		b.driver.MarkDirty(subs...)
	}
}

// Subscribers returns the number of live subscribed nodes.
func (b *Binding[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers())
}

// subscribers returns the live subscribers, pruning released ones.
// b.mu must be held.
func (b *Binding[T]) subscribers() []tree.NodeID {
	out := make([]tree.NodeID, 0, len(b.subs))
	for id := range b.subs {
		if !b.driver.arena.Live(id) {
			delete(b.subs, id)
			continue
		}
		out = append(out, id)
	}
	return out
}

func (b *Binding[T]) equals(a, c T) bool {
	if b.equal != nil {
		return b.equal(a, c)
	}
	return reflect.DeepEqual(a, c)
}

// Batch runs fn and defers the dirty marks it makes until the outermost
// batch returns. Each node is marked once.
//
//	d.Batch(func() {
//	    title.Set("Inbox")
//	    count.Set(3)
//	})
func (d *Driver) Batch(fn func()) {
	d.batchMu.Lock()
	d.batchDepth++
	d.batchMu.Unlock()

	defer func() {
		d.batchMu.Lock()
		d.batchDepth--
		var pending []tree.NodeID
		if d.batchDepth == 0 {
			pending = d.batched
			d.batched = nil
		}
		d.batchMu.Unlock()

		if len(pending) > 0 {
			d.dirty.Mark(dedupe(pending)...)
		}
	}()

	fn()
}

func dedupe(ids []tree.NodeID) []tree.NodeID {
	seen := make(map[tree.NodeID]bool, len(ids))
	unique := make([]tree.NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
