package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"threatmatrix/internal/input"
	"threatmatrix/internal/logging"
	"threatmatrix/internal/rng"
	"threatmatrix/internal/sim"
)

var errNoTerminal = errors.New("run needs an interactive terminal; use headless instead")

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive dashboard",
		Long:  "run starts the full-screen dashboard. Hover and click the control buttons or use the keyboard shortcuts; press ? for help and q to quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errNoTerminal
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			sc, err := loadScript(script)
			if err != nil {
				return err
			}
			// The terminal belongs to the UI; logs go to --log-file or nowhere.
			log, closeLog, err := opts.newLogger(io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = logging.NewContext(ctx, log)

			queue := input.NewQueue(0)
			tui := sim.NewTUIRenderer(cfg, queue, sim.TUIOptions{NoColor: opts.noColor, OnExit: cancel})
			simulator := sim.NewSimulator(cfg, input.Sources{queue, scriptSource(sc)}, tui, rng.New(opts.seed), nil)
			simulator.Run(ctx)

			if err := tui.Close(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("dashboard closed", "frames", simulator.Frame())
			return nil
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "Replay a YAML input script (file path or built-in name) alongside live input")
	return cmd
}
