package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"threatmatrix/internal/config"
	"threatmatrix/internal/logging"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	schemaPath string
	seed       int64
	logLevel   string
	logFile    string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "threatmatrix",
		Short:         "Animated network security dashboard",
		Long:          "threatmatrix renders a simulated network security dashboard: a particle field of network nodes, system gauges, a threat feed and a scrolling event log.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to dashboard configuration YAML (defaults built in)")
	f.StringVar(&opts.schemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed; 0 seeds from the clock")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colors")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newHeadlessCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath, o.schemaPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to --log-file when set and to fallback otherwise. The
// returned cleanup closes the file.
func (o *rootOptions) newLogger(fallback io.Writer) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, err
	}
	if o.logFile == "" {
		return logging.New(fallback, level), func() {}, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(f, level), func() { f.Close() }, nil
}
