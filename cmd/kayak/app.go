package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/kayak-ui/kayak/internal/config"
	"github.com/kayak-ui/kayak/pkg/inspect"
	"github.com/kayak-ui/kayak/pkg/render"
	"github.com/kayak-ui/kayak/pkg/telemetry"
	"github.com/kayak-ui/kayak/pkg/tree"
)

// demoApp is a header, a keyed list and a footer. Each step mutates the list
// so consecutive frames exercise append, removal, reorder and selection.
type demoApp struct {
	driver   *render.Driver
	layout   *stackLayout
	items    *render.Binding[[]string]
	selected *render.Binding[string]
	root     tree.NodeID
	next     int
}

func newDemoApp(cfg *config.Config, logger *slog.Logger, opts ...render.Option) *demoApp {
	a := &demoApp{layout: newStackLayout()}

	base := []render.Option{
		render.WithLogger(logger.With("component", "render")),
		render.WithDebug(cfg.Debug),
		render.WithLayoutSolver(a.layout),
		render.WithTracer(telemetry.NewTracer(telemetry.WithTracerName(cfg.Tracing.TracerName))),
	}
	a.driver = render.New(append(base, opts...)...)

	initial := make([]string, 0, cfg.Demo.Items)
	for range cfg.Demo.Items {
		initial = append(initial, a.newItem())
	}
	a.items = render.NewBinding(a.driver, initial)
	a.selected = render.NewBinding(a.driver, "")
	a.root = a.driver.Mount(render.WidgetFunc(a.render))
	return a
}

func (a *demoApp) newItem() string {
	a.next++
	return fmt.Sprintf("item-%d", a.next)
}

func (a *demoApp) render(rc *render.RenderContext) {
	rc.Child("header", render.Leaf)
	rc.Child("list", render.WidgetFunc(a.renderList))
	rc.Child("footer", render.Leaf)
}

func (a *demoApp) renderList(rc *render.RenderContext) {
	for _, key := range a.items.Get(rc) {
		rc.Child(key, a.row(key))
	}
}

func (a *demoApp) row(key string) render.Widget {
	return render.WidgetFunc(func(rc *render.RenderContext) {
		rc.Child("label", render.Leaf)
		if a.selected.Get(rc) == key {
			rc.Child("badge", render.Leaf)
		}
	})
}

// step applies the mutation for frame n and returns a short description.
func (a *demoApp) step(n int) string {
	var what string
	a.driver.Batch(func() {
		items := slices.Clone(a.items.Peek())
		switch n % 5 {
		case 1:
			items = append(items, a.newItem())
			what = "append " + items[len(items)-1]
		case 2:
			if len(items) > 0 {
				what = "remove " + items[0]
				items = items[1:]
			}
		case 3:
			slices.Reverse(items)
			what = "reverse"
		case 4:
			if len(items) > 0 {
				a.selected.Set(items[len(items)-1])
				what = "select " + items[len(items)-1]
			}
		default:
			if len(items) > 1 {
				items = append(items[1:], items[0])
				what = "rotate"
			}
		}
		a.items.Set(items)
	})
	if what == "" {
		what = "no-op"
	}
	return what
}

// listNode returns the NodeID of the list widget.
func (a *demoApp) listNode() (tree.NodeID, bool) {
	for _, c := range a.driver.Tree().Children(a.root) {
		if a.driver.Key(c) == "list" {
			return c, true
		}
	}
	return tree.InvalidID, false
}

func (a *demoApp) printTree(w io.Writer) {
	for _, n := range inspect.TakeSnapshot(a.driver).Nodes {
		label := n.Key
		if label == "" {
			label = "root"
		}
		fmt.Fprintf(w, "  %s%s (%s)\n", strings.Repeat("  ", n.Depth), label, n.ID)
	}
}

func formatStats(s render.FrameStats) string {
	return fmt.Sprintf("rendered=%d +%d -%d ~%d nodes=%d",
		s.Rendered, s.Inserted, s.Removed, s.Updated, s.TreeSize)
}
