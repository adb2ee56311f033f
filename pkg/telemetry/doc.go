// Package telemetry exposes frame-level Prometheus metrics and OpenTelemetry
// spans for the Kayak render driver.
//
// Both types are nil-safe: a nil *Metrics or *Tracer records nothing, so the
// driver can call them unconditionally.
//
// Metrics collected (namespace "kayak" by default):
//   - kayak_frames_total: frames by status (ok, error, idle)
//   - kayak_frame_duration_seconds: time spent in one frame
//   - kayak_changes_total: merged structural changes by op
//   - kayak_dirty_nodes: dirty nodes drained per frame
//   - kayak_rendered_subtrees_total: subtrees re-rendered
//   - kayak_tree_nodes: nodes in the authoritative tree
//   - kayak_render_panics_total: widget render panics recovered
package telemetry
