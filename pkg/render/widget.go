package render

import (
	"strconv"

	"github.com/kayak-ui/kayak/internal/errors"
	"github.com/kayak-ui/kayak/pkg/tree"
)

// Widget renders itself by declaring children on a RenderContext.
// Render must be a pure function of the widget and the bindings it reads.
type Widget interface {
	Render(rc *RenderContext)
}

// WidgetFunc adapts a function to the Widget interface.
type WidgetFunc func(rc *RenderContext)

// Render calls f(rc).
func (f WidgetFunc) Render(rc *RenderContext) {
	f(rc)
}

// Leaf is a widget with no children.
var Leaf Widget = WidgetFunc(func(*RenderContext) {})

// RenderContext is passed to Widget.Render. It is only valid for the
// duration of the call.
//
// Render runs while the driver holds its tree lock, so a widget must not
// call Driver methods from Render; use the RenderContext accessors instead.
type RenderContext struct {
	pass *renderPass
	node tree.NodeID
	next int
}

// Node returns the NodeID of the widget being rendered.
func (rc *RenderContext) Node() tree.NodeID {
	return rc.node
}

// Key returns the key the widget being rendered was declared with, as
// Driver.Key reports it.
func (rc *RenderContext) Key() string {
	return rc.pass.driver.keyOf(rc.node)
}

// KeyOf returns the key of a node rendered so far, such as a child returned
// by Child.
func (rc *RenderContext) KeyOf(node tree.NodeID) string {
	return rc.pass.driver.keyOf(node)
}

// Child declares w as the next child of the widget being rendered and
// renders it. An empty key identifies the child by its position among its
// siblings. It returns the child's NodeID.
//
// Declaring the same key twice under one parent panics with a K001 error.
func (rc *RenderContext) Child(key string, w Widget) tree.NodeID {
	s := keyedSlot(rc.node, key)
	if key == "" {
		s = positionalSlot(rc.node, rc.next)
	}
	rc.next++

	p := rc.pass
	id := p.driver.identify(s, p)
	if p.scratch.Contains(id) {
		panic(errors.New("K001").
			WithDetail("key " + strconv.Quote(key) + " declared twice under " + rc.node.String()))
	}
	p.scratch.Add(id, rc.node)
	p.widgets[id] = w
	p.render(id, w)
	return id
}
