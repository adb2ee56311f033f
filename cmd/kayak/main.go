package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayak-ui/kayak/internal/config"
	"github.com/kayak-ui/kayak/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	debug     bool
	json      bool
}

func main() {
	cmd, flags := newRootCmd()
	if err := cmd.Execute(); err != nil {
		reportError(os.Stderr, flags, err)
		os.Exit(1)
	}
}

// reportError prints err for a human, or as JSON lines under --json.
func reportError(w io.Writer, flags *globalFlags, err error) {
	if flags.json {
		errors.PrintJSON(w, err, errors.CategoryCLI)
		return
	}
	errors.PrintError(w, err)
}

func newRootCmd() (*cobra.Command, *globalFlags) {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "kayak",
		Short: "Widget tree reconciliation engine",
		Long: `Kayak keeps a widget tree in step with what widgets render.

Each frame re-renders the dirty widgets into a scratch tree, diffs
their children against the live tree and merges the changes, then
hands the touched nodes to layout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", "",
		"Directory holding kayak.json (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false,
		"Validate tree invariants after every frame")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false,
		"Report errors as JSON lines")

	rootCmd.AddCommand(
		demoCmd(flags),
		inspectCmd(flags),
		initCmd(flags),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd, flags
}

// loadConfig resolves kayak.json for a command. Without --config it walks up
// from the working directory and falls back to defaults.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configDir != "" {
		cfg, err = config.Load(flags.configDir)
	} else {
		dir := "."
		if found, ferr := config.FindConfigDir(dir); ferr == nil {
			dir = found
		}
		cfg, err = config.LoadOrDefault(dir)
	}
	if err != nil {
		return nil, err
	}

	if flags.debug {
		cfg.Debug = true
	}
	return cfg, nil
}
