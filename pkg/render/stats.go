package render

import (
	"time"

	"github.com/kayak-ui/kayak/pkg/tree"
)

// FrameStats summarizes one call to Driver.Frame.
type FrameStats struct {
	// Seq is the frame number, starting at 1.
	Seq uint64 `json:"seq"`

	// Dirty is the number of dirty nodes drained at the start of the frame.
	Dirty int `json:"dirty"`

	// Rendered is the number of subtrees re-rendered.
	Rendered int `json:"rendered"`

	Inserted int `json:"inserted"`
	Removed  int `json:"removed"`
	Updated  int `json:"updated"`

	// LaidOut is the number of nodes handed to the layout solver.
	LaidOut int `json:"laidOut"`

	// Relayout is the number of nodes the solver asked to re-render.
	Relayout int `json:"relayout"`

	// TreeSize is the number of nodes in the tree after the frame.
	TreeSize int `json:"treeSize"`

	Duration time.Duration `json:"durationNs"`

	// Error is the frame error message, if any.
	Error string `json:"error,omitempty"`

	// Report is the combined merge report of the frame.
	Report tree.MergeReport `json:"-"`
}

// Idle reports whether the frame had nothing to do.
func (s FrameStats) Idle() bool {
	return s.Dirty == 0
}
