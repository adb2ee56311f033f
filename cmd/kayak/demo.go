package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kayak-ui/kayak/internal/config"
	"github.com/kayak-ui/kayak/internal/errors"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		frames int
		items  int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a sample list across several frames",
		Long: `Render a header, a keyed list and a footer, mutating the list
between frames (append, remove, reverse, select, rotate) and printing
the change counts and the resulting tree after every frame.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frames") {
				if frames < 0 {
					return errors.New("K030").
						WithDetail("--frames must not be negative; got " + strconv.Itoa(frames))
				}
				cfg.Demo.Frames = frames
			}
			if cmd.Flags().Changed("items") {
				if items < 0 {
					return errors.New("K030").
						WithDetail("--items must not be negative; got " + strconv.Itoa(items))
				}
				cfg.Demo.Items = items
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", config.DefaultFrames, "Number of frames to run (default from kayak.json)")
	cmd.Flags().IntVar(&items, "items", config.DefaultItems, "Initial number of list items (default from kayak.json)")

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, cfg *config.Config) error {
	logger := cfg.NewLogger(os.Stderr)
	app := newDemoApp(cfg, logger)

	for n := 1; n <= cfg.Demo.Frames; n++ {
		what := "mount"
		if n > 1 {
			what = app.step(n)
		}

		stats, err := app.driver.Frame(ctx)
		if err != nil {
			return err
		}
		app.layout.Forget(stats.Report.Removed)

		fmt.Fprintf(out, "frame %d: %s  %s height=%d\n",
			stats.Seq, what, formatStats(stats), app.layout.Height(app.root))
		app.printTree(out)
	}
	return nil
}
