package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kayak-ui/kayak/pkg/render"
	"github.com/kayak-ui/kayak/pkg/tree"
)

const (
	defaultWriteTimeout    = 5 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	// clientBuffer is the number of frame messages queued per client
	// before new ones are dropped.
	clientBuffer = 16
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCheckOrigin sets the WebSocket origin check. The default accepts
// requests without an Origin header and same-host origins.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// Server is the inspector HTTP server.
type Server struct {
	driver   *render.Driver
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.Mutex
	clients map[*client]struct{}
	cancel  func()
}

// New creates an inspector for d and subscribes to its frames.
// Call Close to unsubscribe.
func New(d *render.Driver, opts ...Option) *Server {
	s := &Server{
		driver:   d,
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "inspect")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.With(middleware.NoCache).Get("/tree", s.handleTree)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleStream)
	s.router = r

	s.cancel = d.OnFrame(s.broadcast)
	return s
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "address", addr, "driver", s.driver.ID())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("inspector shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		return nil
	}
}

// Close unsubscribes from the driver and disconnects stream clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"driver": s.driver.ID(),
	})
}

// NodeInfo describes one node in a tree snapshot.
type NodeInfo struct {
	ID       string `json:"id"`
	Parent   string `json:"parent,omitempty"`
	Depth    int    `json:"depth"`
	Key      string `json:"key,omitempty"`
	Children int    `json:"children"`
}

// Snapshot is the /tree response body.
type Snapshot struct {
	Driver string     `json:"driver"`
	Size   int        `json:"size"`
	Nodes  []NodeInfo `json:"nodes"`
}

// TakeSnapshot captures d's tree in preorder.
func TakeSnapshot(d *render.Driver) Snapshot {
	t := d.Tree()
	snap := Snapshot{
		Driver: d.ID(),
		Size:   t.Len(),
		Nodes:  make([]NodeInfo, 0, t.Len()),
	}
	t.Walk(func(n tree.NodeID, depth int) bool {
		info := NodeInfo{
			ID:       n.String(),
			Depth:    depth,
			Key:      d.Key(n),
			Children: t.ChildCount(n),
		}
		if parent, ok := t.Parent(n); ok {
			info.Parent = parent.String()
		}
		snap.Nodes = append(snap.Nodes, info)
		return true
	})
	return snap
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TakeSnapshot(s.driver))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
