// Package inspect serves a developer inspector for a running render driver.
//
// Routes:
//
//	GET /healthz   liveness and driver ID
//	GET /tree      JSON snapshot of the widget tree in preorder
//	GET /metrics   Prometheus metrics
//	GET /ws        WebSocket stream of FrameStats, one message per frame
//
// The inspector is read-only. It never mutates the tree.
package inspect
