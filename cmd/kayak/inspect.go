package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kayak-ui/kayak/internal/config"
	"github.com/kayak-ui/kayak/pkg/inspect"
	"github.com/kayak-ui/kayak/pkg/render"
	"github.com/kayak-ui/kayak/pkg/telemetry"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run the demo continuously and serve the inspector",
		Long: `Run the demo widget tree on a timer and serve the inspector:

  GET /healthz   liveness
  GET /tree      tree snapshot as JSON
  GET /metrics   Prometheus metrics
  GET /ws        live frame stats over WebSocket

Stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			return runInspect(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from kayak.json)")

	return cmd
}

func runInspect(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.NewLogger(os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	var opts []render.Option
	if cfg.Metrics.Enabled {
		metrics := telemetry.NewMetrics(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		)
		opts = append(opts, render.WithMetrics(metrics))
	}
	app := newDemoApp(cfg, logger, opts...)

	srv := inspect.New(app.driver,
		inspect.WithLogger(logger.With("component", "inspect")),
		inspect.WithGatherer(reg),
	)

	go runFrames(ctx, app, cfg.FrameInterval())
	return srv.Serve(ctx, cfg.Inspect.Addr)
}

// runFrames mutates and renders the demo on every tick until ctx is done.
func runFrames(ctx context.Context, app *demoApp, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		if n > 1 {
			app.step(n)
		}
		stats, err := app.driver.Frame(ctx)
		if err != nil && ctx.Err() != nil {
			return
		}
		app.layout.Forget(stats.Report.Removed)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
