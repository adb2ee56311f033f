package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kayak-ui/kayak/pkg/render"
	"github.com/kayak-ui/kayak/pkg/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDriver mounts a root with two keyed children and renders it.
func newTestDriver(t *testing.T, opts ...render.Option) *render.Driver {
	t.Helper()
	d := render.New(append([]render.Option{render.WithLogger(quietLogger())}, opts...)...)
	d.Mount(render.WidgetFunc(func(rc *render.RenderContext) {
		rc.Child("title", render.Leaf)
		rc.Child("body", render.WidgetFunc(func(rc *render.RenderContext) {
			rc.Child("", render.Leaf)
		}))
	}))
	if _, err := d.Frame(context.Background()); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	return d
}

func TestHealthz(t *testing.T) {
	d := newTestDriver(t)
	s := New(d, WithLogger(quietLogger()))
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["driver"] != d.ID() {
		t.Errorf("body = %v", body)
	}
}

func TestTreeSnapshot(t *testing.T) {
	d := newTestDriver(t)
	s := New(d, WithLogger(quietLogger()))
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var snap Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Size != 4 || len(snap.Nodes) != 4 {
		t.Fatalf("snapshot size = %d, nodes = %d; want 4, 4", snap.Size, len(snap.Nodes))
	}

	tests := []struct {
		key      string
		depth    int
		children int
	}{
		{"", 0, 2},
		{"title", 1, 0},
		{"body", 1, 1},
		{"#0", 2, 0},
	}
	for i, tt := range tests {
		n := snap.Nodes[i]
		if n.Key != tt.key || n.Depth != tt.depth || n.Children != tt.children {
			t.Errorf("node %d = %+v, want key %q depth %d children %d",
				i, n, tt.key, tt.depth, tt.children)
		}
	}
	if snap.Nodes[0].Parent != "" || snap.Nodes[1].Parent != snap.Nodes[0].ID {
		t.Errorf("parents = %q, %q", snap.Nodes[0].Parent, snap.Nodes[1].Parent)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := newTestDriver(t, render.WithMetrics(telemetry.NewMetrics(telemetry.WithRegistry(reg))))
	if _, err := d.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}

	s := New(d, WithLogger(quietLogger()), WithGatherer(reg))
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"kayak_frames_total", "kayak_tree_nodes 4"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestFrameStream(t *testing.T) {
	d := newTestDriver(t)
	s := New(d, WithLogger(quietLogger()))
	defer s.Close()

	srv := httptest.NewServer(s)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	stats, err := d.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got render.FrameStats
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Seq != stats.Seq || got.TreeSize != 4 {
		t.Errorf("streamed stats = %+v, want seq %d size 4", got, stats.Seq)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	d := newTestDriver(t)
	s := New(d, WithLogger(quietLogger()))
	s.Close()
	s.Close()

	// Frames after Close must not reach the server.
	if _, err := d.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Clients() != 0 {
		t.Errorf("Clients() = %d, want 0", s.Clients())
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	d := newTestDriver(t)
	s := New(d, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
